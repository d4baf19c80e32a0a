package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/packer/internal/packer"
	"github.com/eugenenazirov/packer/internal/packfile"
	"github.com/eugenenazirov/packer/internal/storage"
)

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	defaultMaxBodyBytes            = 1 << 20
)

// Handler exposes the pack processor over HTTP.
type Handler struct {
	processor    *packfile.Processor
	cache        storage.Storage
	maxBodyBytes int64

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler constructs a Handler. cache may be nil when caching is disabled.
func NewHandler(processor *packfile.Processor, cache storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		processor:    processor,
		cache:        cache,
		maxBodyBytes: defaultMaxBodyBytes,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	})
}

func (h *Handler) handleLimits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, limitsResponse{
		MaxWeightLimit: packer.MaxWeightLimit,
		MaxItems:       packer.MaxItems,
		MaxItemWeight:  packer.MaxItemWeight,
		MaxItemCost:    packer.MaxItemCost,
		Sentinel:       packfile.Sentinel,
	})
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	var stats storage.Stats
	if h.cache != nil {
		stats = h.cache.Stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Lines) > 0 && req.Input != "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "provide either lines or input, not both")
		return
	}
	if len(req.Lines) == 0 && req.Input == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "lines or input must be provided")
		return
	}

	start := time.Now()
	var (
		results []packfile.LineResult
		err     error
	)
	if req.Input != "" {
		results, err = h.processor.Process(r.Context(), strings.NewReader(req.Input))
	} else {
		results, err = h.processor.Lines(r.Context(), req.Lines)
	}
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, packer.ErrParse):
			writeError(w, http.StatusUnprocessableEntity, "Invalid pack input", err.Error(),
				"Lines must look like \"81 : (1,53.38,€45) (2,88.62,€98)\"")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	resp := packResponse{
		Results:           make([]lineResponse, len(results)),
		Output:            packfile.Join(results),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	for i, res := range results {
		resp.Results[i] = newLineResponse(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func newLineResponse(res packfile.LineResult) lineResponse {
	line := lineResponse{
		Line:      res.Number,
		Input:     res.Input,
		Selection: res.Selection,
		Selected:  res.Selected,
		Cached:    res.Cached,
		Items:     []itemResponse{},
	}
	if !res.Selected {
		return line
	}

	limit, weight, cost := res.Pack.WeightLimit(), res.Pack.TotalWeight(), res.Pack.TotalCost()
	line.WeightLimit, line.TotalWeight, line.TotalCost = &limit, &weight, &cost
	for _, item := range res.Pack.Items() {
		line.Items = append(line.Items, itemResponse{
			Index:  item.Index,
			Weight: item.Weight,
			Cost:   item.Cost,
		})
	}
	return line
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type packRequest struct {
	Lines []string `json:"lines"`
	Input string   `json:"input"`
}

type packResponse struct {
	Results           []lineResponse `json:"results"`
	Output            string         `json:"output"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type lineResponse struct {
	Line        int              `json:"line"`
	Input       string           `json:"input"`
	Selection   string           `json:"selection"`
	Selected    bool             `json:"selected"`
	Cached      bool             `json:"cached"`
	WeightLimit *decimal.Decimal `json:"weightLimit,omitempty"`
	TotalWeight *decimal.Decimal `json:"totalWeight,omitempty"`
	TotalCost   *decimal.Decimal `json:"totalCost,omitempty"`
	Items       []itemResponse   `json:"items"`
}

type itemResponse struct {
	Index  int             `json:"index"`
	Weight decimal.Decimal `json:"weight"`
	Cost   decimal.Decimal `json:"cost"`
}

type limitsResponse struct {
	MaxWeightLimit int    `json:"maxWeightLimit"`
	MaxItems       int    `json:"maxItems"`
	MaxItemWeight  int    `json:"maxItemWeight"`
	MaxItemCost    int    `json:"maxItemCost"`
	Sentinel       string `json:"sentinel"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
