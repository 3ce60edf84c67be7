package hierarchy

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is one node at a hierarchy level.
type Record struct {
	Name     string            `json:"name"`
	ID       string            `json:"id,omitempty"`
	Value    float64           `json:"value"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Navigable reports whether clicking the record can lead anywhere.
func (r Record) Navigable() bool {
	return r.ID != ""
}

// Weight is the record's value clamped to zero, as used for layout.
func (r Record) Weight() float64 {
	if r.Value > 0 {
		return r.Value
	}
	return 0
}

// Sum returns the total value of records.
func Sum(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Value
	}
	return total
}

// ID is an identifier from the spending API. The API reports ids as strings,
// numbers or null depending on the result type; all three decode into a
// string, with null becoming "".
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON implements json.Marshaler. An empty id encodes as null.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(string(id))), nil
}

// Result is one row of a spending API response.
type Result struct {
	ID            ID      `json:"id"`
	Code          string  `json:"code,omitempty"`
	Type          string  `json:"type,omitempty"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"account_number,omitempty"`
}

// Response is the shape served by the spending API and stored in the data
// directory, one file per level.
type Response struct {
	Total   float64  `json:"total"`
	EndDate string   `json:"end_date,omitempty"`
	Results []Result `json:"results"`
}

// Find returns the result with the given id.
func (r Response) Find(id string) (Result, bool) {
	for _, res := range r.Results {
		if string(res.ID) == id {
			return res, true
		}
	}
	return Result{}, false
}

// Records converts the response rows into records.
//
// At the top level only rows with an id and a positive amount are kept, which
// hides the aggregate rows the API reports for unreported agencies. Deeper
// levels keep every row so the displayed total matches the response; rows
// without an id become display-only records.
func (r Response) Records(key Key) []Record {
	records := make([]Record, 0, len(r.Results))
	for _, res := range r.Results {
		if key.Depth() == 0 && (res.ID == "" || res.Amount <= 0) {
			continue
		}
		rec := Record{Name: res.Name, ID: string(res.ID), Value: res.Amount}
		if res.AccountNumber != "" || res.Code != "" {
			rec.Metadata = map[string]string{}
			if res.AccountNumber != "" {
				rec.Metadata["account_number"] = res.AccountNumber
			}
			if res.Code != "" {
				rec.Metadata["code"] = res.Code
			}
		}
		records = append(records, rec)
	}
	return records
}
