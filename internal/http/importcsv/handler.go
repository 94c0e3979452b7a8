package importcsv

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/http/auth"
	"github.com/spendlens/spendlens/internal/importer"
	"github.com/spendlens/spendlens/internal/rules"
	rulestore "github.com/spendlens/spendlens/internal/rules/store"
	"github.com/spendlens/spendlens/internal/transaction"
)

// RuleLoader supplies the rule snapshot used to categorize a whole upload.
// One snapshot per request keeps every row of a file categorized against the
// same rules even if another request edits them mid-import.
type RuleLoader interface {
	Load(ctx context.Context, userID uuid.UUID, layer rulestore.Layer) (rules.Set, error)
}

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	ruleStore RuleLoader
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, ruleStore RuleLoader) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		ruleStore: ruleStore,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	CreatedAt      time.Time       `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	RawDescription    string          `json:"raw_description"`
	Amount            decimal.Decimal `json:"amount"`
	Category          string          `json:"category"`
	TransactionType   string          `json:"transaction_type,omitempty"`
	SourceAccountType string          `json:"source_account_type,omitempty"`
	SourceFilename    string          `json:"source_filename,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		http.Error(w, "source field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, skipped, err := h.importSvc.Import(source, header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.categorize(r.Context(), userID, params); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(result.Imported, skipped)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// categorize fills in Category for every parsed row from one rule snapshot.
func (h *Handler) categorize(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) error {
	userRules, err := h.ruleStore.Load(ctx, userID, rulestore.LayerUser)
	if err != nil {
		return err
	}

	suggestedRules, err := h.ruleStore.Load(ctx, userID, rulestore.LayerSuggested)
	if err != nil {
		return err
	}

	for i, p := range params {
		params[i].Category = rules.Categorize(p.Description, userRules, suggestedRules)
	}

	return nil
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))

	for _, p := range req.Params {
		date, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			http.Error(w, "invalid date: "+p.Date, http.StatusBadRequest)
			return
		}

		params = append(params, transaction.CreateParams{
			Date:              date,
			Description:       p.Description,
			RawDescription:    p.RawDescription,
			Amount:            p.Amount,
			Category:          p.Category,
			TransactionType:   p.TransactionType,
			SourceAccountType: p.SourceAccountType,
			SourceFilename:    p.SourceFilename,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), userID, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(txs, 0)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(txs []*transaction.Transaction, skipped int) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Skipped:      skipped,
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Date:           tx.Date.Format(time.DateOnly),
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Amount:         tx.Amount,
		Category:       tx.Category,
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Date:              p.Date.Format(time.DateOnly),
		Description:       p.Description,
		RawDescription:    p.RawDescription,
		Amount:            p.Amount,
		Category:          p.Category,
		TransactionType:   p.TransactionType,
		SourceAccountType: p.SourceAccountType,
		SourceFilename:    p.SourceFilename,
	}
}
