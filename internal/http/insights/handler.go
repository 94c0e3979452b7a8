package insights

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/http/auth"
	"github.com/spendlens/spendlens/internal/insights"
	"github.com/spendlens/spendlens/internal/transaction"
)

type Handler struct {
	txSvc *transaction.Service
}

func NewHandler(txSvc *transaction.Service) *Handler {
	return &Handler{txSvc: txSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/trends", h.trends)
	r.Get("/recurring", h.recurring)
	r.Get("/duplicates", h.duplicates)
	r.Get("/frequent", h.frequent)
}

// load fetches the user's transactions for the optional start_date/end_date
// window and dereferences them for the analytics passes.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]transaction.Transaction, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return nil, false
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return nil, false
		}

		filter.EndDate = new(t)
	}

	ptrs, err := h.txSvc.List(r.Context(), userID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	txs := make([]transaction.Transaction, len(ptrs))
	for i, tx := range ptrs {
		txs[i] = *tx
	}

	return txs, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, toSummaryResponse(insights.Summarize(txs)))
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}

	report, err := insights.CompareMonths(txs)
	if err != nil {
		if errors.Is(err, insights.ErrInsufficientData) {
			// Not an error condition for the client: there simply isn't a
			// previous month to compare against yet.
			writeJSON(w, insufficientDataResponse{
				InsufficientData: true,
				Message:          "not enough transaction history to compare two months",
			})

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, toTrendsResponse(report))
}

func (h *Handler) recurring(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}

	opts := insights.DefaultRecurringOptions()

	if v, ok := intParam(r, "min_occurrences"); ok {
		opts.MinOccurrences = v
	}

	if v, ok := intParam(r, "days_tolerance"); ok {
		opts.DaysTolerance = v
	}

	if v, ok := decimalParam(r, "tolerance_percent"); ok {
		opts.AmountTolerancePercent = v
	}

	writeJSON(w, toRecurringResponse(insights.DetectRecurring(txs, opts)))
}

func (h *Handler) duplicates(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}

	recurring := insights.DetectRecurring(txs, insights.DefaultRecurringOptions())

	opts := insights.DefaultDuplicateOptions()

	if v, ok := decimalParam(r, "amount_similarity_percent"); ok {
		opts.AmountSimilarityPercent = v
	}

	if v, ok := intParam(r, "max_days_apart"); ok {
		opts.MaxDaysApartInMonth = v
	}

	writeJSON(w, toDuplicatesResponse(insights.FindDuplicates(recurring, opts)))
}

func (h *Handler) frequent(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.load(w, r)
	if !ok {
		return
	}

	// Date filtering already happened in load; the pass sees the full window.
	opts := insights.DefaultFrequentOptions()

	if v, ok := intParam(r, "min_frequency"); ok {
		opts.MinFrequency = v
	}

	writeJSON(w, toFrequentResponse(insights.FrequentSpending(txs, opts)))
}

func intParam(r *http.Request, name string) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, false
	}

	return v, true
}

func decimalParam(r *http.Request, name string) (decimal.Decimal, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return decimal.Zero, false
	}

	v, err := decimal.NewFromString(s)
	if err != nil || v.Sign() <= 0 {
		return decimal.Zero, false
	}

	return v, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
