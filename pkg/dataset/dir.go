package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

// Dir reads and writes level files in a data directory.
type Dir struct {
	root       string
	fiscalYear int
}

// NewDir returns a Dir rooted at root for the given fiscal year.
func NewDir(root string, fiscalYear int) *Dir {
	return &Dir{root: root, fiscalYear: fiscalYear}
}

// Root returns the data directory.
func (d *Dir) Root() string { return d.root }

// FileName returns the file name holding the level at key.
func (d *Dir) FileName(key hierarchy.Key) string {
	switch key.Depth() {
	case 0:
		return fmt.Sprintf("fy%d.json", d.fiscalYear)
	case 1:
		return fmt.Sprintf("agency_%s.json", key.AgencyID)
	default:
		return fmt.Sprintf("agency_%s_account_%s.json", key.AgencyID, key.AccountID)
	}
}

// Path returns the full path of the level file at key.
func (d *Dir) Path(key hierarchy.Key) string {
	return filepath.Join(d.root, d.FileName(key))
}

// Exists reports whether the level file at key is present.
func (d *Dir) Exists(key hierarchy.Key) bool {
	if key.Validate() != nil {
		return false
	}
	_, err := os.Stat(d.Path(key))
	return err == nil
}

// Response reads the level file at key.
func (d *Dir) Response(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
	if err := key.Validate(); err != nil {
		return hierarchy.Response{}, err
	}
	if err := ctx.Err(); err != nil {
		return hierarchy.Response{}, err
	}
	data, err := os.ReadFile(d.Path(key))
	if os.IsNotExist(err) {
		return hierarchy.Response{}, errors.New(errors.ErrCodeLevelNotFound, "no data file for %s", key)
	}
	if err != nil {
		return hierarchy.Response{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", d.FileName(key))
	}

	var resp hierarchy.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return hierarchy.Response{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", d.FileName(key))
	}
	return resp, nil
}

// Write stores resp as the level file at key, indented, replacing any
// existing file atomically.
func (d *Dir) Write(key hierarchy.Key, resp hierarchy.Response) error {
	if err := key.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.root, ".level-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.Path(key))
}
