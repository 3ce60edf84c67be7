package sink

import (
	"bytes"
	"encoding/xml"
)

const (
	labelFontSize   = 14.0
	labelCharWidth  = 0.55
	labelInsetX     = 4.0
	labelFirstLine  = 13.0
	labelLineHeight = 15.0
)

// visibleLines returns the label lines that fit in a w × h cell, each cut
// to the cell width.
func visibleLines(lines []string, w, h float64) []string {
	maxChars := int((w - 2*labelInsetX) / (labelFontSize * labelCharWidth))
	if maxChars < 3 {
		return nil
	}
	var out []string
	for i, line := range lines {
		baseline := labelFirstLine + float64(i)*labelLineHeight
		if baseline > h-2 {
			break
		}
		out = append(out, truncate(line, maxChars))
	}
	return out
}

func truncate(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
