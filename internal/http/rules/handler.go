package rules

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spendlens/spendlens/internal/http/auth"
	"github.com/spendlens/spendlens/internal/llm"
	"github.com/spendlens/spendlens/internal/rules"
	rulestore "github.com/spendlens/spendlens/internal/rules/store"
	"github.com/spendlens/spendlens/internal/transaction"
)

type RuleStore interface {
	Load(ctx context.Context, userID uuid.UUID, layer rulestore.Layer) (rules.Set, error)
	Save(ctx context.Context, userID uuid.UUID, layer rulestore.Layer, key, category string) error
	SaveAll(ctx context.Context, userID uuid.UUID, layer rulestore.Layer, set rules.Set) error
	ClearSuggested(ctx context.Context, userID uuid.UUID) error
}

type Handler struct {
	store      RuleStore
	classifier llm.Classifier
	txSvc      *transaction.Service
}

func NewHandler(store RuleStore, classifier llm.Classifier, txSvc *transaction.Service) *Handler {
	return &Handler{
		store:      store,
		classifier: classifier,
		txSvc:      txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.save)
	r.Delete("/suggested", h.clearSuggested)
	r.Post("/classify", h.classify)
}

type rulesResponse struct {
	User      rules.Set `json:"user"`
	Suggested rules.Set `json:"suggested"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	userRules, err := h.store.Load(r.Context(), userID, rulestore.LayerUser)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	suggestedRules, err := h.store.Load(r.Context(), userID, rulestore.LayerSuggested)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rulesResponse{
		User:      userRules,
		Suggested: suggestedRules,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type saveRuleRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req saveRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := rules.Key(req.Description)
	category := strings.TrimSpace(req.Category)

	if key == "" || category == "" {
		http.Error(w, "description and category are required", http.StatusBadRequest)
		return
	}

	if err := h.store.Save(r.Context(), userID, rulestore.LayerUser, key, category); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearSuggested(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.ClearSuggested(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type classifyResponse struct {
	Classified int       `json:"classified"`
	Suggested  rules.Set `json:"suggested"`
}

// classify regenerates the suggested layer: it collects the descriptions of
// every transaction still uncategorized, asks the classifier for categories
// and replaces the old suggestions wholesale.
func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	category := transaction.DefaultCategory

	txs, err := h.txSvc.List(r.Context(), userID, transaction.ListFilter{Category: &category})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	descriptions := make([]string, 0, len(txs))
	for _, tx := range txs {
		descriptions = append(descriptions, tx.Description)
	}

	suggested, err := h.classifier.Classify(r.Context(), descriptions)
	if err != nil {
		http.Error(w, "classification failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	if err := h.store.ClearSuggested(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.store.SaveAll(r.Context(), userID, rulestore.LayerSuggested, suggested); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(classifyResponse{
		Classified: len(suggested),
		Suggested:  suggested,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
