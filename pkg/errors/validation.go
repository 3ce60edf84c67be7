package errors

import (
	"math"
	"net/url"
	"regexp"
)

// FirstFiscalYear is the earliest year the spending explorer API serves.
const FirstFiscalYear = 2017

const maxIDLength = 64

// idPattern admits agency ids ("1125") and account codes ("070-0530").
// Ids end up in cache keys and file names, so nothing else is allowed.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateID checks an agency or federal account id.
func ValidateID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidID, "id cannot be empty")
	case len(id) > maxIDLength:
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	case !idPattern.MatchString(id):
		return New(ErrCodeInvalidID, "invalid id: %q", id)
	}
	return nil
}

// ValidateAmount checks a personal contribution. Zero means no
// contribution.
func ValidateAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return New(ErrCodeInvalidAmount, "amount must be a finite number")
	case amount < 0:
		return New(ErrCodeInvalidAmount, "amount cannot be negative")
	}
	return nil
}

// ValidateFiscalYear checks that fy is one the API can serve. The upper
// bound only catches typos.
func ValidateFiscalYear(fy int) error {
	if fy < FirstFiscalYear || fy > 2100 {
		return New(ErrCodeInvalidInput, "fiscal year %d out of range (%d or later)", fy, FirstFiscalYear)
	}
	return nil
}

// ValidateURL checks an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}
