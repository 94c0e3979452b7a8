package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/spendlens/spendlens/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, date, description, raw_description, amount, category,
	transaction_type, source_account_type, source_filename,
	client_name, invoice_id, project_id, payout_source, transaction_origin, data_context,
	created_at, updated_at
`

// scanTransaction reads one row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var (
		rawDesc   sql.NullString
		txType    sql.NullString
		acctType  sql.NullString
		filename  sql.NullString
		client    sql.NullString
		invoiceID sql.NullString
		projectID sql.NullString
		payout    sql.NullString
		origin    sql.NullString
		dataCtx   sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Description, &rawDesc, &tx.Amount, &tx.Category,
		&txType, &acctType, &filename,
		&client, &invoiceID, &projectID, &payout, &origin, &dataCtx,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.RawDescription = rawDesc.String
	tx.TransactionType = txType.String
	tx.SourceAccountType = acctType.String
	tx.SourceFilename = filename.String
	tx.ClientName = client.String
	tx.InvoiceID = invoiceID.String
	tx.ProjectID = projectID.String
	tx.PayoutSource = payout.String
	tx.TransactionOrigin = origin.String
	tx.DataContext = dataCtx.String

	return &tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1`

	args := []any{userID}
	argIdx := 2

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = LOWER($%d)", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.ClientName != nil {
		query += fmt.Sprintf(" AND client_name = $%d", argIdx)

		args = append(args, *filter.ClientName)
		argIdx++
	}

	query += " ORDER BY date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id uuid.UUID, category string) error {
	query := `
		UPDATE transactions
		SET category = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = $3
	`

	res, err := s.db.ExecContext(ctx, query, category, userID, id)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	if affected == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// importLockKey derives a per-user advisory lock key for the import's date
// range so concurrent imports of overlapping ranges serialize.
func importLockKey(userID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx     *sql.Tx
	userID uuid.UUID
}

func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(userID, minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, userID: userID}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         string
		RawDescription string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:           p.Date.Format(time.DateOnly),
			Amount:         p.Amount.String(),
			RawDescription: p.RawDescription,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Date:           tx.Date.Format(time.DateOnly),
			Amount:         tx.Amount.String(),
			RawDescription: tx.RawDescription,
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			user_id, date, description, raw_description, amount, category,
			transaction_type, source_account_type, source_filename,
			client_name, invoice_id, project_id, payout_source, transaction_origin, data_context,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	for _, tx := range txs {
		err := itx.tx.QueryRowContext(ctx, query,
			itx.userID,
			tx.Date,
			tx.Description,
			tx.RawDescription,
			tx.Amount,
			tx.Category,
			tx.TransactionType,
			tx.SourceAccountType,
			tx.SourceFilename,
			tx.ClientName,
			tx.InvoiceID,
			tx.ProjectID,
			tx.PayoutSource,
			tx.TransactionOrigin,
			tx.DataContext,
		).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
