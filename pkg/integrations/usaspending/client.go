// Package usaspending fetches obligated spending from the USAspending.gov
// spending explorer endpoint.
//
// One POST to /api/v2/spending/ returns one hierarchy level. The request type
// follows the level depth: agencies at the total, federal accounts under an
// agency and program activities under an account.
//
//	c := usaspending.NewClient(fileCache, cache.TTLHTTP, usaspending.WithFiscalYear(2024))
//	resp, err := c.Response(ctx, hierarchy.Key{AgencyID: "1125"})
package usaspending

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spendinglol/spending/pkg/cache"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/httputil"
	"github.com/spendinglol/spending/pkg/integrations"
)

const (
	DefaultBaseURL    = "https://api.usaspending.gov"
	DefaultFiscalYear = 2024
	// DefaultPeriod is the last fiscal period, covering the full year.
	DefaultPeriod = 12

	spendingPath = "/api/v2/spending/"
	namespace    = "usaspending"
)

// Request types, one per hierarchy depth.
const (
	TypeAgency          = "agency"
	TypeFederalAccount  = "federal_account"
	TypeProgramActivity = "program_activity"
)

// Request is the body of a spending explorer query.
type Request struct {
	Type    string  `json:"type"`
	Filters Filters `json:"filters"`
}

// Filters narrows a spending query. Values are strings on the wire.
type Filters struct {
	FY             string `json:"fy"`
	Period         string `json:"period"`
	Agency         string `json:"agency,omitempty"`
	FederalAccount string `json:"federal_account,omitempty"`
}

// Client queries the spending explorer.
type Client struct {
	api        *integrations.Client
	baseURL    string
	fiscalYear int
	period     int
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithFiscalYear(fy int) Option {
	return func(c *Client) { c.fiscalYear = fy }
}

func WithPeriod(p int) Option {
	return func(c *Client) { c.period = p }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.api.SetHTTPClient(h) }
}

// NewClient creates a Client that caches responses in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration, opts ...Option) *Client {
	cl := &Client{
		api:        integrations.NewClient(c, namespace, ttl, nil),
		baseURL:    DefaultBaseURL,
		fiscalYear: DefaultFiscalYear,
		period:     DefaultPeriod,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// FiscalYear returns the year the client queries.
func (c *Client) FiscalYear() int { return c.fiscalYear }

// RequestFor builds the query for the level at key.
func (c *Client) RequestFor(key hierarchy.Key) Request {
	r := Request{
		Filters: Filters{
			FY:     strconv.Itoa(c.fiscalYear),
			Period: strconv.Itoa(c.period),
		},
	}
	switch key.Depth() {
	case 0:
		r.Type = TypeAgency
	case 1:
		r.Type = TypeFederalAccount
		r.Filters.Agency = key.AgencyID
	default:
		r.Type = TypeProgramActivity
		r.Filters.Agency = key.AgencyID
		r.Filters.FederalAccount = key.AccountID
	}
	return r
}

// Response fetches the level at key, using the cache when possible.
func (c *Client) Response(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
	return c.Fetch(ctx, key, false)
}

// Fetch fetches the level at key. With refresh the cached copy is ignored
// and replaced.
func (c *Client) Fetch(ctx context.Context, key hierarchy.Key, refresh bool) (hierarchy.Response, error) {
	if err := key.Validate(); err != nil {
		return hierarchy.Response{}, err
	}
	req := c.RequestFor(key)
	ck := strconv.Itoa(c.fiscalYear) + "/" + strconv.Itoa(c.period) + "/" + key.String()

	var resp hierarchy.Response
	err := c.api.Cached(ctx, ck, refresh, &resp, func() error {
		resp = hierarchy.Response{}
		return c.api.Post(ctx, c.baseURL+spendingPath, req, &resp)
	})
	if err != nil {
		return hierarchy.Response{}, classify(key, err)
	}
	return resp, nil
}

func classify(key hierarchy.Key, err error) error {
	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeLevelNotFound, err, "no spending data for %s", key)
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "usaspending rate limit hit for %s", key)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", key)
	case httputil.IsRetryable(err), stderrors.Is(err, integrations.ErrNetwork):
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", key)
	default:
		return err
	}
}
