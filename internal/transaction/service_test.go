package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spendlens/spendlens/internal/transaction"
)

func TestService_UpdateCategory(t *testing.T) {
	type testCase struct {
		name         string
		category     string
		wantStored   string
		setupMock    func(m *transaction.MockRepository, userID, id uuid.UUID, stored string)
		wantErr      bool
		wantCategory string
	}

	tests := []testCase{
		{
			name:       "LowercasesCategory",
			category:   "  Dining ",
			wantStored: "dining",
			setupMock: func(m *transaction.MockRepository, userID, id uuid.UUID, stored string) {
				m.EXPECT().UpdateCategory(gomock.Any(), userID, id, stored).Return(nil)
				m.EXPECT().
					GetTransaction(gomock.Any(), userID, id).
					Return(&transaction.Transaction{ID: id, Category: stored}, nil)
			},
			wantCategory: "dining",
		},
		{
			name:       "EmptyFallsBackToDefault",
			category:   "   ",
			wantStored: "uncategorized",
			setupMock: func(m *transaction.MockRepository, userID, id uuid.UUID, stored string) {
				m.EXPECT().UpdateCategory(gomock.Any(), userID, id, stored).Return(nil)
				m.EXPECT().
					GetTransaction(gomock.Any(), userID, id).
					Return(&transaction.Transaction{ID: id, Category: stored}, nil)
			},
			wantCategory: "uncategorized",
		},
		{
			name:       "RepoError",
			category:   "dining",
			wantStored: "dining",
			setupMock: func(m *transaction.MockRepository, userID, id uuid.UUID, stored string) {
				m.EXPECT().UpdateCategory(gomock.Any(), userID, id, stored).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			userID, id := uuid.New(), uuid.New()
			tt.setupMock(repo, userID, id, tt.wantStored)

			svc := transaction.NewService(repo)
			got, err := svc.UpdateCategory(context.Background(), userID, id, tt.category)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
		})
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:           date,
			Description:    "COFFEE SHOP",
			RawDescription: "COFFEE SHOP 01/15",
			Amount:         decimal.RequireFromString("-4.50"),
			Category:       "Coffee",
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)

	// Category is normalized to lowercase on the way in.
	assert.Equal(t, "coffee", result.Imported[0].Category)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:           date,
			Description:    "COFFEE SHOP",
			RawDescription: "COFFEE SHOP",
			Amount:         decimal.RequireFromString("-4.50"),
		},
		{
			Date:           date,
			Description:    "LUNCH PLACE",
			RawDescription: "LUNCH PLACE",
			Amount:         decimal.RequireFromString("-12.00"),
		},
	}

	existing := &transaction.Transaction{
		ID:             uuid.New(),
		Date:           date,
		RawDescription: "COFFEE SHOP",
		Amount:         decimal.RequireFromString("-4.50"),
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	userID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Date:        date,
			Description: "COFFEE SHOP",
			Amount:      decimal.RequireFromString("-4.50"),
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-4.50")))

	// Missing raw description falls back to the display description, and a
	// missing category defaults to uncategorized.
	assert.Equal(t, "COFFEE SHOP", txs[0].RawDescription)
	assert.Equal(t, "uncategorized", txs[0].Category)
}
