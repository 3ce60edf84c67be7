package dataset

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

// Level titles and breadcrumb names.
const (
	TotalTitle = "Agencies"
	RootCrumb  = "All Agencies"
)

// Loader builds hierarchy levels from a Source.
type Loader struct {
	src Source
}

// NewLoader returns a Loader reading from src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Level loads the level at key together with the ancestor responses needed
// for its title, breadcrumbs and parent share. Ancestors are fetched
// concurrently; a missing ancestor only degrades the title to a fallback.
func (l *Loader) Level(ctx context.Context, key hierarchy.Key) (hierarchy.Level, error) {
	if err := key.Validate(); err != nil {
		return hierarchy.Level{}, err
	}

	var own, top, agency hierarchy.Response
	var haveTop, haveAgency bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = l.src.Response(gctx, key)
		return err
	})
	if key.Depth() >= 1 {
		g.Go(func() error {
			var err error
			top, haveTop, err = l.optional(gctx, hierarchy.Key{})
			return err
		})
	}
	if key.Depth() == 2 {
		g.Go(func() error {
			var err error
			agency, haveAgency, err = l.optional(gctx, key.Parent())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return hierarchy.Level{}, err
	}

	lv := hierarchy.Level{
		Key:     key,
		Total:   own.Total,
		Records: own.Records(key),
	}

	switch key.Depth() {
	case 0:
		lv.Title = TotalTitle
	case 1:
		name, share := agencyInfo(top, haveTop, key.AgencyID)
		lv.Title = name
		lv.ParentShare = share
		lv.Breadcrumbs = []hierarchy.Crumb{{Name: RootCrumb, Key: hierarchy.Key{}}}
	case 2:
		agencyName, agencyShare := agencyInfo(top, haveTop, key.AgencyID)
		lv.Title = "Account " + key.AccountID
		if haveAgency {
			if res, ok := agency.Find(key.AccountID); ok {
				lv.Title = res.Name
				if agency.Total > 0 && agencyShare != nil {
					lv.ParentShare = hierarchy.Share(budget.CalculateUserPortion(*agencyShare, res.Amount, agency.Total))
				}
			}
		}
		lv.Breadcrumbs = []hierarchy.Crumb{
			{Name: RootCrumb, Key: hierarchy.Key{}},
			{Name: agencyName, Key: key.Parent()},
		}
	}
	return lv, nil
}

func (l *Loader) optional(ctx context.Context, key hierarchy.Key) (hierarchy.Response, bool, error) {
	resp, err := l.src.Response(ctx, key)
	if IsNotFound(err) {
		return hierarchy.Response{}, false, nil
	}
	if err != nil {
		return hierarchy.Response{}, false, err
	}
	return resp, true, nil
}

// agencyInfo returns the agency's display name and its share of the
// grand total. The share is nil when the grand total is unavailable.
func agencyInfo(top hierarchy.Response, ok bool, id string) (string, *float64) {
	if !ok {
		return "Agency " + id, nil
	}
	res, found := top.Find(id)
	if !found {
		return "Agency " + id, nil
	}
	if top.Total <= 0 {
		return res.Name, nil
	}
	return res.Name, hierarchy.Share(budget.CalculateUserPortion(1, res.Amount, top.Total))
}
