package hierarchy

import (
	"strings"

	"github.com/spendinglol/spending/pkg/errors"
)

// MaxDepth is the depth of the deepest level (program activities).
const MaxDepth = 2

// Key addresses a hierarchy level. The zero Key is the fiscal-year total.
type Key struct {
	AgencyID  string `json:"agency_id,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}

// Depth returns 0 for the total, 1 for an agency and 2 for an account.
func (k Key) Depth() int {
	switch {
	case k.AccountID != "":
		return 2
	case k.AgencyID != "":
		return 1
	default:
		return 0
	}
}

// Parent returns the enclosing level. The parent of the total is the total.
func (k Key) Parent() Key {
	switch k.Depth() {
	case 2:
		return Key{AgencyID: k.AgencyID}
	default:
		return Key{}
	}
}

// Child returns the level reached by selecting id at k. It reports false at
// the deepest level, where records have nowhere to lead.
func (k Key) Child(id string) (Key, bool) {
	switch k.Depth() {
	case 0:
		return Key{AgencyID: id}, true
	case 1:
		return Key{AgencyID: k.AgencyID, AccountID: id}, true
	default:
		return k, false
	}
}

// Validate checks that the ids are well formed and that an account never
// appears without its agency.
func (k Key) Validate() error {
	if k.AccountID != "" && k.AgencyID == "" {
		return errors.New(errors.ErrCodeInvalidID, "account %q has no agency", k.AccountID)
	}
	if k.AgencyID != "" {
		if err := errors.ValidateID(k.AgencyID); err != nil {
			return err
		}
	}
	if k.AccountID != "" {
		if err := errors.ValidateID(k.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// String returns a slash-separated form such as "agency/1125/account/070".
func (k Key) String() string {
	switch k.Depth() {
	case 2:
		return "agency/" + k.AgencyID + "/account/" + k.AccountID
	case 1:
		return "agency/" + k.AgencyID
	default:
		return "total"
	}
}

// Path returns the URL path of the level, carrying view as a query
// parameter when it is not the default.
func (k Key) Path(view View) string {
	var p string
	switch k.Depth() {
	case 2:
		p = "/agency/" + k.AgencyID + "/account/" + k.AccountID
	case 1:
		p = "/agency/" + k.AgencyID
	default:
		p = "/"
	}
	if view != "" && view != ViewTree {
		p += "?view=" + string(view)
	}
	return p
}

// ParseKey parses the output of [Key.String] or the path part of
// [Key.Path]. Both "total" and "" name the top level.
func ParseKey(s string) (Key, error) {
	s = strings.Trim(s, "/")
	if s == "" || s == "total" {
		return Key{}, nil
	}
	parts := strings.Split(s, "/")
	var k Key
	switch {
	case len(parts) == 2 && parts[0] == "agency":
		k = Key{AgencyID: parts[1]}
	case len(parts) == 4 && parts[0] == "agency" && parts[2] == "account":
		k = Key{AgencyID: parts[1], AccountID: parts[3]}
	default:
		return Key{}, errors.New(errors.ErrCodeInvalidPath, "unrecognized level %q", s)
	}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// View is how a level is presented. It is carried forward on navigation.
type View string

const (
	ViewTree  View = "tree"
	ViewTable View = "table"
	ViewGraph View = "nodelink"
)

// ParseView parses a view name. The empty string selects [ViewTree];
// "list" is accepted for [ViewTable] and "graph" for [ViewGraph].
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "treemap":
		return ViewTree, nil
	case "table", "list":
		return ViewTable, nil
	case "nodelink", "graph":
		return ViewGraph, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidView, "unknown view %q (want tree, table or nodelink)", s)
	}
}
