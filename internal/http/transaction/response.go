package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`

	TransactionType   string `json:"transaction_type,omitempty"`
	SourceAccountType string `json:"source_account_type,omitempty"`
	SourceFilename    string `json:"source_filename,omitempty"`

	ClientName        string `json:"client_name,omitempty"`
	InvoiceID         string `json:"invoice_id,omitempty"`
	ProjectID         string `json:"project_id,omitempty"`
	PayoutSource      string `json:"payout_source,omitempty"`
	TransactionOrigin string `json:"transaction_origin,omitempty"`
	DataContext       string `json:"data_context,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                tx.ID,
		Date:              tx.Date.Format(time.DateOnly),
		Description:       tx.Description,
		RawDescription:    tx.RawDescription,
		Amount:            tx.Amount,
		Category:          tx.Category,
		TransactionType:   tx.TransactionType,
		SourceAccountType: tx.SourceAccountType,
		SourceFilename:    tx.SourceFilename,
		ClientName:        tx.ClientName,
		InvoiceID:         tx.InvoiceID,
		ProjectID:         tx.ProjectID,
		PayoutSource:      tx.PayoutSource,
		TransactionOrigin: tx.TransactionOrigin,
		DataContext:       tx.DataContext,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
