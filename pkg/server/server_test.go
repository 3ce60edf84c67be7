package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/observability/prometheus"
	"github.com/spendinglol/spending/pkg/pipeline"
)

type fakeLoader struct {
	err error
}

func (f fakeLoader) Level(_ context.Context, key hierarchy.Key) (hierarchy.Level, error) {
	if f.err != nil {
		return hierarchy.Level{}, f.err
	}
	lv := hierarchy.Level{
		Key:   key,
		Title: "Agencies",
		Total: 1000,
		Records: []hierarchy.Record{
			{Name: "Defense", ID: "1", Value: 700},
			{Name: "Health", ID: "2", Value: 300},
		},
	}
	if key.Depth() > 0 {
		lv.Title = "Defense"
		lv.ParentShare = hierarchy.Share(0.7)
		lv.Breadcrumbs = []hierarchy.Crumb{{Name: "All Agencies"}}
	}
	return lv, nil
}

func newTestServer(t *testing.T, loader pipeline.Loader, opts ...Option) (*httptest.Server, *http.Client) {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(loader, nil, nil, logger)
	srv := httptest.NewServer(New(runner, append([]Option{WithLogger(logger)}, opts...)...).Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func put(t *testing.T, c *http.Client, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestHealth(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	code, body := get(t, c, srv.URL+"/healthz")
	if code != http.StatusOK || !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("healthz = %d %s", code, body)
	}
}

func TestContributionIsPerSession(t *testing.T) {
	srv, alice := newTestServer(t, fakeLoader{})

	code, body := put(t, alice, srv.URL+"/api/contribution", `{"amount": 250, "enabled": true}`)
	if code != http.StatusOK {
		t.Fatalf("PUT = %d %s", code, body)
	}
	_, body = get(t, alice, srv.URL+"/api/contribution")
	if !strings.Contains(body, `"amount":250`) || !strings.Contains(body, `"enabled":true`) {
		t.Errorf("alice = %s", body)
	}

	jar, _ := cookiejar.New(nil)
	bob := &http.Client{Jar: jar}
	_, body = get(t, bob, srv.URL+"/api/contribution")
	if !strings.Contains(body, `"amount":1`) || !strings.Contains(body, `"enabled":false`) {
		t.Errorf("bob = %s, want defaults", body)
	}

	// A partial update keeps the other field.
	put(t, alice, srv.URL+"/api/contribution", `{"enabled": false}`)
	_, body = get(t, alice, srv.URL+"/api/contribution")
	if !strings.Contains(body, `"amount":250`) || !strings.Contains(body, `"enabled":false`) {
		t.Errorf("alice after toggle = %s", body)
	}
}

func TestPutContributionErrors(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	tests := []struct {
		body string
		code errors.Code
	}{
		{`{"amount": -5}`, errors.ErrCodeInvalidAmount},
		{`{"amount": "ten"}`, errors.ErrCodeInvalidInput},
		{`{"color": "red"}`, errors.ErrCodeInvalidInput},
		{`not json`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		status, body := put(t, c, srv.URL+"/api/contribution", tt.body)
		if status != http.StatusBadRequest || !strings.Contains(body, string(tt.code)) {
			t.Errorf("PUT %s = %d %s, want 400 %s", tt.body, status, body, tt.code)
		}
	}
}

func TestBudgetScalesToContribution(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	put(t, c, srv.URL+"/api/contribution", `{"amount": 100, "enabled": true}`)

	_, body := get(t, c, srv.URL+"/api/budget")
	var resp struct {
		FiscalYear int `json:"fiscal_year"`
		Stack      struct {
			Revenue float64 `json:"revenue"`
			Outlays float64 `json:"outlays"`
		} `json:"stack"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if resp.FiscalYear != 2024 || resp.Stack.Revenue != 100 {
		t.Errorf("budget = %+v", resp)
	}
	if resp.Stack.Outlays <= resp.Stack.Revenue {
		t.Errorf("outlays %v should exceed revenue %v", resp.Stack.Outlays, resp.Stack.Revenue)
	}
}

func TestLevelAPI(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/levels/", http.StatusOK, `"cells"`},
		{"/api/levels/agency/1", http.StatusOK, `"cells"`},
		{"/api/levels/agency/1/account/2?view=table&sort=name", http.StatusOK, `"rows"`},
		{"/api/levels/?view=nodelink", http.StatusBadRequest, string(errors.ErrCodeInvalidFormat)},
		{"/api/levels/?view=pie", http.StatusBadRequest, string(errors.ErrCodeInvalidView)},
		{"/api/levels/?width=wide", http.StatusBadRequest, string(errors.ErrCodeInvalidInput)},
		{"/api/levels/?width=NaN", http.StatusBadRequest, string(errors.ErrCodeInvalidInput)},
		{"/api/levels/?view=table&sort=size", http.StatusBadRequest, string(errors.ErrCodeInvalidInput)},
		{"/api/levels/agency/bad%20id", http.StatusBadRequest, string(errors.ErrCodeInvalidID)},
		{"/nope", http.StatusNotFound, string(errors.ErrCodeNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, c, srv.URL+tt.path)
			if status != tt.status || !strings.Contains(body, tt.want) {
				t.Errorf("GET %s = %d %s, want %d containing %s", tt.path, status, body, tt.status, tt.want)
			}
		})
	}
}

func TestLevelNotFound(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{err: errors.New(errors.ErrCodeLevelNotFound, "no data")})
	status, body := get(t, c, srv.URL+"/api/levels/agency/9")
	if status != http.StatusNotFound || !strings.Contains(body, "no data") {
		t.Errorf("GET = %d %s", status, body)
	}
}

func TestTreemapPage(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	put(t, c, srv.URL+"/api/contribution", `{"amount": 100, "enabled": true}`)

	status, body := get(t, c, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("GET / = %d", status)
	}
	for _, want := range []string{"<svg", `href="/agency/1"`, "$70.00 from you", "$100.00 from you", `href="/?view=table"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestTablePageKeepsView(t *testing.T) {
	srv, c := newTestServer(t, fakeLoader{})
	status, body := get(t, c, srv.URL+"/agency/1?view=table")
	if status != http.StatusOK {
		t.Fatalf("GET = %d", status)
	}
	if strings.Contains(body, "<svg") {
		t.Error("table page should not embed svg")
	}
	for _, want := range []string{"<table>", "Defense", `href="/agency/1/account/1?view=table"`, `href="/?view=table"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "from you") {
		t.Error("from-you figures shown while personalize is off")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := prometheus.New(promclient.NewRegistry())
	srv, c := newTestServer(t, fakeLoader{}, WithMetrics(m))

	get(t, c, srv.URL+"/healthz")
	status, body := get(t, c, srv.URL+"/metrics")
	if status != http.StatusOK || !strings.Contains(body, "spending_requests_total") {
		t.Errorf("metrics = %d %s", status, body)
	}
}

func TestSessions(t *testing.T) {
	ss := newSessions(contribution.State{Amount: 5})

	rec := httptest.NewRecorder()
	first := ss.store(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	if got := first.Get().Amount; got != 5 {
		t.Errorf("initial amount = %v, want 5", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	if ss.store(rec, req) != first {
		t.Error("known cookie did not return the same store")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("known session was issued a new cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	if ss.store(httptest.NewRecorder(), req) == first {
		t.Error("invalid cookie reused an existing store")
	}
	if ss.len() != 2 {
		t.Errorf("sessions = %d, want 2", ss.len())
	}
}

func TestSessionsExpireIdle(t *testing.T) {
	ss := newSessions(contribution.State{Amount: 1})
	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	old := ss.store(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rec.Result().Cookies()[0]

	now = now.Add(sessionMaxAge / 2)
	kept := httptest.NewRequest(http.MethodGet, "/", nil)
	kept.AddCookie(cookie)
	if ss.store(httptest.NewRecorder(), kept) != old {
		t.Fatal("session expired before the idle window")
	}

	now = now.Add(sessionMaxAge + time.Second)
	ss.store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if ss.len() != 1 {
		t.Errorf("sessions = %d, want 1 after the idle one expired", ss.len())
	}
	stale := httptest.NewRequest(http.MethodGet, "/", nil)
	stale.AddCookie(cookie)
	if ss.store(httptest.NewRecorder(), stale) == old {
		t.Error("expired session was revived")
	}
}

func TestSessionsBounded(t *testing.T) {
	ss := newSessions(contribution.State{Amount: 1})
	ss.limit = 100

	rec := httptest.NewRecorder()
	first := ss.store(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	firstCookie := rec.Result().Cookies()[0]

	for i := 0; i < 10_000; i++ {
		ss.store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if i == 50 {
			// Touching the first session keeps it off the eviction end for a while.
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(firstCookie)
			if ss.store(httptest.NewRecorder(), req) != first {
				t.Fatal("live session lost before the limit was reached")
			}
		}
	}
	if ss.len() != 100 {
		t.Errorf("sessions = %d, want 100", ss.len())
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(firstCookie)
	if ss.store(httptest.NewRecorder(), req) == first {
		t.Error("least recently seen session was not evicted")
	}
}

func TestWithSessionLimit(t *testing.T) {
	s := New(nil, WithSessionLimit(3))
	for i := 0; i < 10; i++ {
		s.sessions.store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if got := s.sessions.len(); got != 3 {
		t.Errorf("sessions = %d, want 3", got)
	}
}
