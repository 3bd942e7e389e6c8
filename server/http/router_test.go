package serverhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offer-match/internal/config"
	"offer-match/internal/offer/catalog"
	offerHnd "offer-match/internal/offer/handler"
	"offer-match/internal/offer/model"
	"offer-match/internal/offer/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	deps := offerHnd.Deps{
		Store:   catalog.NewStore(catalog.Embedded{}, time.Second, logger),
		Matcher: service.NewMatcher(service.DefaultRules(), logger),
		Logger:  logger,
	}
	cfg := config.Config{AllowOrigins: []string{"*"}, MaxUploadMB: 1}
	return NewRouter(cfg, deps, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMatchEndpoint(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/match", `{"insurer":"Alptis","formulaLabel":"Niveau 2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res model.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Record)
	assert.Equal(t, "Niveau 2", res.Record.LevelName)
	assert.Equal(t, model.StrategyExact, res.Strategy)

	rec = do(t, h, http.MethodPost, "/v1/match", `{"insurer":"Zenioo","formulaLabel":"Niveau 1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res = model.Resolution{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Nil(t, res.Record)

	rec = do(t, h, http.MethodPost, "/v1/match", `{"insurer":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreEndpoint(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		body  string
		tier  model.Tier
		score int
	}{
		{`{"need":"50€","contractValue":"51€"}`, model.TierIdentical, 98},
		{`{"need":0,"contractValue":"120%"}`, model.TierIdentical, 100},
		{`{"need":100,"contractValue":300}`, model.TierFar, 0},
		{`{"need":"100%","contractValue":"-"}`, model.TierNoCoverage, 0},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/v1/score", tt.body)
		require.Equal(t, http.StatusOK, rec.Code, tt.body)
		var res model.ProximityResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, tt.tier, res.Tier, tt.body)
		assert.Equal(t, tt.score, res.Score, tt.body)
	}

	rec := do(t, h, http.MethodPost, "/v1/score", `{"need":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseAndAggregateEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/parse", `{"values":["250 % BR","-","+30€"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var vals []model.GuaranteeValue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vals))
	require.Len(t, vals, 3)
	assert.Equal(t, model.KindPercentage, vals[0].Kind)
	assert.Equal(t, model.KindNotCovered, vals[1].Kind)
	assert.True(t, vals[2].IsAddition)

	rec = do(t, h, http.MethodPost, "/v1/aggregate", `{"results":[{"score":100},{"score":0},{"score":50}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var agg model.AggregateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(t, 50, agg.Score)
	assert.Equal(t, model.TierSomewhatFar, agg.Tier)
}

func TestRankEndpoint(t *testing.T) {
	h := newTestRouter(t)
	body := `{
		"needs": {"hospitalisation": "200%", "honoraires": 150, "chambre_particuliere": "60€"},
		"offers": [
			{"insurer": "Alptis", "formula": "Niveau 1", "price": 30},
			{"insurer": "Alptis", "formula": "Niveau 3", "price": 60},
			{"insurer": "Inconnu", "formula": "Niveau 3"}
		]
	}`
	rec := do(t, h, http.MethodPost, "/v1/rank", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Offers []model.RankedOffer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Offers, 3)
	assert.Equal(t, "Niveau 3", out.Offers[0].Offer.Formula)
	assert.Equal(t, "Inconnu", out.Offers[2].Offer.Insurer)
	assert.Nil(t, out.Offers[2].Record)

	rec = do(t, h, http.MethodPost, "/v1/rank", `{"needs":{},"offers":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap catalog.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "embedded", snap.Source)
	assert.Positive(t, snap.Count)
	assert.False(t, snap.Degraded)

	rec = do(t, h, http.MethodPost, "/v1/catalog/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodOptions, "/v1/match", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
