package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/internal/external/marketfeed"
	"github.com/equitylens/backend/internal/scoring"
	"github.com/equitylens/backend/pkg/logger"
)

const (
	defaultListLimit    = 50
	defaultHistoryLimit = 30
	maxListLimit        = 500
)

// ScoreStore is the read side of score persistence.
type ScoreStore interface {
	GetLatest(ctx context.Context, ticker string) (*contracts.ScoreResult, error)
	ListLatest(ctx context.Context, limit int) ([]*contracts.ScoreResult, error)
	History(ctx context.Context, ticker string, limit int) ([]*contracts.ScoreResult, error)
}

// QuoteProvider serves live quotes for the quote endpoint.
type QuoteProvider interface {
	LatestQuote(ctx context.Context, ticker string) (*marketfeed.Quote, error)
}

// Broadcaster pushes freshly computed scores to streaming clients.
type Broadcaster interface {
	Broadcast(result *contracts.ScoreResult)
}

// ScoreHandler handles score-related API endpoints
type ScoreHandler struct {
	store    ScoreStore
	pipeline *scoring.Pipeline
	quotes   QuoteProvider
	stream   Broadcaster
	workers  int
	logger   *logger.Logger
}

// NewScoreHandler creates a new score handler. quotes and stream may be nil
// when the corresponding feature is not configured.
func NewScoreHandler(
	store ScoreStore,
	pipeline *scoring.Pipeline,
	quotes QuoteProvider,
	stream Broadcaster,
	workers int,
	log *logger.Logger,
) *ScoreHandler {
	if workers < 1 {
		workers = scoring.DefaultWorkers
	}
	return &ScoreHandler{
		store:    store,
		pipeline: pipeline,
		quotes:   quotes,
		stream:   stream,
		workers:  workers,
		logger:   log,
	}
}

// ListScores returns the latest score per ticker, best first
// GET /api/scores?limit=N
func (h *ScoreHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := queryLimit(r, defaultListLimit)

	results, err := h.store.ListLatest(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scores")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scores")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// GetScore returns the latest score for a ticker
// GET /api/scores/{ticker}
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := tickerParam(r)
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	result, err := h.store.GetLatest(ctx, ticker)
	if err != nil {
		respondError(w, http.StatusNotFound, "No score found for "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetHistory returns recent scoring runs for a ticker, newest first
// GET /api/scores/{ticker}/history?limit=N
func (h *ScoreHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := tickerParam(r)
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}
	limit := queryLimit(r, defaultHistoryLimit)

	results, err := h.store.History(ctx, ticker, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get score history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve score history")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// RescoreRequest represents a rescore request
type RescoreRequest struct {
	Tickers []string `json:"tickers"`
}

// RescoreResponse summarizes a rescore run
type RescoreResponse struct {
	Status  string                   `json:"status"`
	Scored  int                      `json:"scored"`
	Failed  int                      `json:"failed"`
	Results []*contracts.ScoreResult `json:"results"`
}

// Rescore recomputes scores for the requested tickers
// POST /api/scores/rescore
func (h *ScoreHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RescoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		respondError(w, http.StatusBadRequest, "No tickers provided")
		return
	}

	h.logger.WithField("tickers", len(tickers)).Info("Rescore triggered")

	results := h.pipeline.ScoreUniverse(ctx, tickers, h.workers)

	resp := RescoreResponse{Status: "success", Results: make([]*contracts.ScoreResult, 0, len(results))}
	for _, res := range results {
		if res.Err != nil {
			resp.Failed++
			continue
		}
		resp.Scored++
		resp.Results = append(resp.Results, res.Result)
		if h.stream != nil {
			h.stream.Broadcast(res.Result)
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetQuote returns the live quote for a ticker
// GET /api/quote/{ticker}
func (h *ScoreHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := tickerParam(r)
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	if h.quotes == nil {
		respondError(w, http.StatusServiceUnavailable, "Quote feed not configured")
		return
	}

	quote, err := h.quotes.LatestQuote(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch quote")
		respondError(w, http.StatusBadGateway, "Failed to fetch quote for "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Helper functions

func tickerParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
}

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]bool)
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
