/*
handlers_test.go - HTTP tests for the PPE API

Tests for:
- Issuing PPE (validation, conflicts, events, metrics)
- History search and dashboard stats
- Advisor endpoints and their fallback answers
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselflow/ppe-engine/advisory"
	"github.com/vesselflow/ppe-engine/api"
	"github.com/vesselflow/ppe-engine/events"
	"github.com/vesselflow/ppe-engine/metrics"
	"github.com/vesselflow/ppe-engine/ppe"
	"github.com/vesselflow/ppe-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var now = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	server  *httptest.Server
	records *ppe.Store
	blob    *memory.Memory
	events  *events.Recorder
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, gen advisory.Generator) *testEnv {
	t.Helper()

	blob := memory.New()
	records := ppe.NewStore(blob, ppe.WithClock(func() time.Time { return now }))
	require.NoError(t, records.Load(context.Background()))

	recorder := &events.Recorder{}
	m := metrics.New()
	seq := 0
	h := api.NewHandler(records, advisory.NewClient(gen, advisory.WithObserver(m.ObserveAdvisory)),
		api.WithEvents(recorder, ""),
		api.WithMetrics(m),
		api.WithClock(func() time.Time { return now }),
		api.WithIDs(func() string {
			seq++
			return fmt.Sprintf("rec-%d", seq)
		}))

	srv := httptest.NewServer(api.NewRouter(h, []string{"http://localhost:5173"}))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, records: records, blob: blob, events: recorder, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func issueBody() map[string]any {
	return map[string]any{
		"vesselName":    "MT OCEAN VOYAGER",
		"requestorName": "John Doe",
		"date":          "2024-03-01",
		"categoryId":    "Hand Protection",
		"itemName":      "Nitrile Gloves",
		"size":          "L",
		"color":         "Blue",
		"quantity":      3,
		"isVerified":    true,
	}
}

func answer(text string) advisory.Generator {
	return advisory.GeneratorFunc(func(context.Context, string) (string, error) { return text, nil })
}

func failing() advisory.Generator {
	return advisory.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("upstream unavailable")
	})
}

// =============================================================================
// RECORDS
// =============================================================================

func TestCreateRecord_Success(t *testing.T) {
	// GIVEN: A seeded store
	env := newTestEnv(t, failing())

	// WHEN: Issuing gloves
	resp := env.do(t, http.MethodPost, "/api/records", issueBody())

	// THEN: 201 with the minted record
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decode[ppe.Record](t, resp)
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, now.UnixMilli(), rec.Timestamp)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	// AND: It is first in the store and persisted
	snap := env.records.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "rec-1", snap[0].ID)
	assert.Equal(t, 1, env.blob.Puts())

	// AND: An issuance event went out keyed by vessel
	published := env.events.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.DefaultTopic, published[0].Topic)
	assert.Equal(t, "MT OCEAN VOYAGER", published[0].Key)
	assert.Equal(t, events.NewIssued(rec), published[0].Event)
}

func TestCreateRecord_ValidationFailure(t *testing.T) {
	env := newTestEnv(t, failing())
	body := issueBody()
	body["isVerified"] = false
	body["vesselName"] = ""

	resp := env.do(t, http.MethodPost, "/api/records", body)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	got := decode[map[string]any](t, resp)
	assert.Equal(t, "validation_failed", got["code"])
	details, ok := got["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "isVerified")
	assert.Contains(t, details, "vesselName")

	// Nothing stored, nothing published
	assert.Len(t, env.records.Snapshot(), 2)
	assert.Empty(t, env.events.Events())
}

func TestCreateRecord_InvalidBody(t *testing.T) {
	env := newTestEnv(t, failing())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/records", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRecord_IfMatch(t *testing.T) {
	// GIVEN: A client that read the history and its ETag
	env := newTestEnv(t, failing())
	list := env.do(t, http.MethodGet, "/api/records", nil)
	tag := list.Header.Get("ETag")
	require.NotEmpty(t, tag)

	// WHEN: It posts with the current tag
	first := env.do(t, http.MethodPost, "/api/records", issueBody(), "If-Match", tag)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	// AND: Posts again with the now stale tag
	second := env.do(t, http.MethodPost, "/api/records", issueBody(), "If-Match", tag)

	// THEN: The second write is refused and nothing is lost
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Len(t, env.records.Snapshot(), 3)

	// AND: The fresh tag works
	third := env.do(t, http.MethodPost, "/api/records", issueBody(), "If-Match", first.Header.Get("ETag"))
	assert.Equal(t, http.StatusCreated, third.StatusCode)
}

func TestCreateRecord_MalformedIfMatch(t *testing.T) {
	env := newTestEnv(t, failing())

	resp := env.do(t, http.MethodPost, "/api/records", issueBody(), "If-Match", `"abc"`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRecord_PersistFailure(t *testing.T) {
	env := newTestEnv(t, failing())
	env.blob.FailPuts(errors.New("disk full"))

	resp := env.do(t, http.MethodPost, "/api/records", issueBody())

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Len(t, env.records.Snapshot(), 2)
	assert.Empty(t, env.events.Events())
}

func TestCreateRecord_PublishFailureStillCreated(t *testing.T) {
	// GIVEN: A broker that rejects events
	env := newTestEnv(t, failing())
	env.events.FailWith(errors.New("broker down"))

	// WHEN: Issuing
	resp := env.do(t, http.MethodPost, "/api/records", issueBody())

	// THEN: The record is stored anyway
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, env.records.Snapshot(), 3)
}

func TestListRecords_Search(t *testing.T) {
	env := newTestEnv(t, failing())
	body := issueBody()
	body["vesselName"] = "MT Ocean Voyager"
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/records", body).StatusCode)

	resp := env.do(t, http.MethodGet, "/api/records?q=voyager", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[[]ppe.Record](t, resp)
	require.Len(t, got, 1)
	assert.Equal(t, "MT Ocean Voyager", got[0].VesselName)
}

func TestListRecords_NewestFirst(t *testing.T) {
	env := newTestEnv(t, failing())
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/records", issueBody()).StatusCode)

	got := decode[[]ppe.Record](t, env.do(t, http.MethodGet, "/api/records", nil))

	require.Len(t, got, 3)
	assert.Equal(t, "rec-1", got[0].ID)
	assert.Equal(t, "Jane Smith", got[1].RequestorName)
	assert.Equal(t, "Erik Janssen", got[2].RequestorName)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestGetStats(t *testing.T) {
	env := newTestEnv(t, failing())

	resp := env.do(t, http.MethodGet, "/api/stats", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, resp)
	assert.EqualValues(t, 3, got["totalItemsTaken"])
	assert.EqualValues(t, 1, got["activeVessels"])
	assert.Equal(t, "Erik Janssen", got["topRequestor"])
}

func TestListCatalog(t *testing.T) {
	env := newTestEnv(t, failing())

	got := decode[[]api.CategoryDTO](t, env.do(t, http.MethodGet, "/api/catalog", nil))

	require.Len(t, got, len(ppe.Categories()))
	assert.Equal(t, string(ppe.CategoryHead), got[0].Name)
	assert.Equal(t, "Hard Hat", got[0].Items[0].Name)
}

// =============================================================================
// ADVISOR
// =============================================================================

func TestGetInsights(t *testing.T) {
	env := newTestEnv(t, answer("Glove usage is steady."))

	resp := env.do(t, http.MethodPost, "/api/advisor/insights", api.InsightsRequest{Query: "trend?"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[api.AdviceResponse](t, resp)
	assert.Equal(t, advisory.KindInsights, got.Mode)
	assert.Equal(t, "Glove usage is steady.", got.Answer)
}

func TestGetInsights_Fallback(t *testing.T) {
	env := newTestEnv(t, failing())

	resp := env.do(t, http.MethodPost, "/api/advisor/insights", api.InsightsRequest{Query: "trend?"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, advisory.InsightsFallback, decode[api.AdviceResponse](t, resp).Answer)
}

func TestAdvisor_BlankInput(t *testing.T) {
	env := newTestEnv(t, answer("unused"))

	insights := env.do(t, http.MethodPost, "/api/advisor/insights", api.InsightsRequest{Query: "   "})
	task := env.do(t, http.MethodPost, "/api/advisor/requirements", api.RequirementRequest{})

	assert.Equal(t, http.StatusBadRequest, insights.StatusCode)
	assert.Equal(t, http.StatusBadRequest, task.StatusCode)
}

func TestPredictRequirements_Fallback(t *testing.T) {
	env := newTestEnv(t, failing())

	resp := env.do(t, http.MethodPost, "/api/advisor/requirements", api.RequirementRequest{Task: "Enclosed space entry"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[api.AdviceResponse](t, resp)
	assert.Equal(t, advisory.KindRequirement, got.Mode)
	assert.Equal(t, advisory.RequirementFallback, got.Answer)
}

// =============================================================================
// OPS
// =============================================================================

func TestHealth(t *testing.T) {
	env := newTestEnv(t, failing())

	got := decode[api.HealthDTO](t, env.do(t, http.MethodGet, "/healthz", nil))

	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, 2, got.Records)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, failing())
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/records", issueBody()).StatusCode)
	env.do(t, http.MethodPost, "/api/advisor/requirements", api.RequirementRequest{Task: "Mooring"})

	resp := env.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "vesselflow_records_appended_total 1")
	assert.Contains(t, text, `vesselflow_issued_quantity_total{category="Hand Protection"} 3`)
	assert.Contains(t, text, `vesselflow_advisory_requests_total{kind="requirement",outcome="fallback"} 1`)
}
