package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"offer-match/internal/offer/catalog"
	"offer-match/internal/offer/model"
	"offer-match/internal/offer/service"
)

// Deps зависимости HTTP-обработчиков движка.
type Deps struct {
	Store   *catalog.Store
	Matcher *service.Matcher
	Logger  zerolog.Logger
}

type parseRequest struct {
	Value  *string  `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Parse POST /v1/parse: {"value": "..."} или {"values": [...]}.
func Parse(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(d.Logger, r)
		var req parseRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if req.Value != nil {
			writeJSON(w, log, http.StatusOK, service.ParseValue(*req.Value))
			return
		}
		out := make([]model.GuaranteeValue, 0, len(req.Values))
		for _, v := range req.Values {
			out = append(out, service.ParseValue(v))
		}
		writeJSON(w, log, http.StatusOK, out)
	}
}

// Match POST /v1/match. Отсутствие эквивалента — 200 с "record": null.
func Match(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(d.Logger, r)
		var q model.MatchQuery
		if err := decodeBody(r, &q); err != nil {
			writeError(w, log, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		res := d.Matcher.Resolve(q, d.Store.Records(r.Context()))
		writeJSON(w, log, http.StatusOK, res)
		log.Debug().
			Str("insurer", q.Insurer).
			Str("label", q.FormulaLabel).
			Str("strategy", string(res.Strategy)).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

type scoreRequest struct {
	Need          flexValue `json:"need"`
	ContractValue flexValue `json:"contractValue"`
}

// Score POST /v1/score: need/contractValue — строка или число.
func Score(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(d.Logger, r)
		var req scoreRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		writeJSON(w, log, http.StatusOK, service.Score(string(req.Need), string(req.ContractValue)))
	}
}

type aggregateRequest struct {
	Results []model.ProximityResult `json:"results"`
}

// Aggregate POST /v1/aggregate.
func Aggregate(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(d.Logger, r)
		var req aggregateRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		writeJSON(w, log, http.StatusOK, service.Aggregate(req.Results))
	}
}

type rankRequest struct {
	Needs  map[string]flexValue `json:"needs"`
	Offers []model.Offer        `json:"offers"`
}

// Rank POST /v1/rank: сопоставление, оценка и сортировка списка предложений.
func Rank(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(d.Logger, r)
		var req rankRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if len(req.Offers) == 0 {
			writeError(w, log, http.StatusBadRequest, "offers must not be empty")
			return
		}
		needs := make(service.Needs, len(req.Needs))
		for k, v := range req.Needs {
			needs[k] = string(v)
		}
		ranked := d.Matcher.RankOffers(needs, req.Offers, d.Store.Records(r.Context()))
		writeJSON(w, log, http.StatusOK, map[string]any{"offers": ranked})
		log.Info().
			Int("offers", len(req.Offers)).
			Int("needs", len(needs)).
			Dur("elapsed", time.Since(start)).
			Msg("rank done")
	}
}

// Catalog GET /v1/catalog: сводка текущего снимка.
func Catalog(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, requestLogger(d.Logger, r), http.StatusOK, d.Store.Snapshot(r.Context()))
	}
}

// ReloadCatalog POST /v1/catalog/reload.
func ReloadCatalog(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(d.Logger, r)
		snap := d.Store.Reload(context.WithoutCancel(r.Context()))
		log.Info().Str("source", snap.Source).Int("records", snap.Count).Bool("degraded", snap.Degraded).Msg("catalog reloaded")
		writeJSON(w, log, http.StatusOK, snap)
	}
}
