package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/buildinfo"
	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/pipeline"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// budgetResponse is the headline stack scaled to the session's contribution.
type budgetResponse struct {
	FiscalYear   int                `json:"fiscal_year"`
	Figure       budget.Figure      `json:"figure"`
	Ratios       budget.Ratios      `json:"ratios"`
	Stack        budget.Stack       `json:"stack"`
	Contribution contribution.State `json:"contribution"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.store(w, r).Get()
	writeJSON(w, http.StatusOK, budgetResponse{
		FiscalYear:   s.year,
		Figure:       s.figure,
		Ratios:       budget.CalculateRatios(s.figure),
		Stack:        budget.NewStack(s.figure, st.Amount, st.Enabled),
		Contribution: st,
	})
}

func (s *Server) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.store(w, r).Get())
}

// contributionUpdate is the PUT body; absent fields are left unchanged.
type contributionUpdate struct {
	Amount  *float64 `json:"amount"`
	Enabled *bool    `json:"enabled"`
}

func (s *Server) handlePutContribution(w http.ResponseWriter, r *http.Request) {
	store := s.sessions.store(w, r)

	var body contributionUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid contribution body"))
		return
	}
	if body.Amount != nil {
		if err := errors.ValidateAmount(*body.Amount); err != nil {
			s.writeError(w, r, err)
			return
		}
		store.Set(*body.Amount)
	}
	if body.Enabled != nil {
		store.SetEnabled(*body.Enabled)
	}
	writeJSON(w, http.StatusOK, store.Get())
}

// handleLevel serves the JSON layout (tree) or rows (table) of one level.
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r, s.sessions.store(w, r).Get())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Links = true

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(res.Artifacts[pipeline.FormatJSON])
}

// options builds pipeline options from the route and query string.
func (s *Server) options(r *http.Request, st contribution.State) (pipeline.Options, error) {
	key := hierarchy.Key{
		AgencyID:  chi.URLParam(r, "agencyID"),
		AccountID: chi.URLParam(r, "accountID"),
	}
	if err := key.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	q := r.URL.Query()
	view, err := pipeline.ParseView(q.Get("view"))
	if err != nil {
		return pipeline.Options{}, err
	}
	width, err := queryFloat(q.Get("width"), s.width)
	if err != nil {
		return pipeline.Options{}, err
	}
	height, err := queryFloat(q.Get("height"), s.height)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		FiscalYear:  s.year,
		Key:         key,
		View:        view,
		Width:       width,
		Height:      height,
		Amount:      st.Amount,
		Personalize: st.Enabled,
		Sort:        q.Get("sort"),
		Order:       q.Get("order"),
		Logger:      s.logger,
	}, nil
}

func queryFloat(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !(f > 0 && f <= 10000) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid size %q", v)
	}
	return f, nil
}
