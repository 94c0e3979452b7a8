package insights

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/insights"
)

// Decimal fields serialize as exact decimal strings; clients must not receive
// binary-float approximations of money.

type insufficientDataResponse struct {
	InsufficientData bool   `json:"insufficient_data"`
	Message          string `json:"message"`
}

type summaryResponse struct {
	TransactionCount int `json:"transaction_count"`
	SkippedCount     int `json:"skipped_count,omitempty"`

	PeriodStart string `json:"period_start,omitempty"`
	PeriodEnd   string `json:"period_end,omitempty"`

	OperationalIncome   decimal.Decimal `json:"operational_income"`
	OperationalSpending decimal.Decimal `json:"operational_spending"`
	TransfersIn         decimal.Decimal `json:"transfers_in"`
	TransfersOut        decimal.Decimal `json:"transfers_out"`

	NetOperationalFlow decimal.Decimal `json:"net_operational_flow"`
	NetTransferFlow    decimal.Decimal `json:"net_transfer_flow"`
	NetTotalFlow       decimal.Decimal `json:"net_total_flow"`

	AverageAmount decimal.Decimal `json:"average_amount"`
	MedianAmount  decimal.Decimal `json:"median_amount"`

	SpendingByCategory    map[string]decimal.Decimal `json:"spending_by_category"`
	IncomeByCategory      map[string]decimal.Decimal `json:"income_by_category"`
	RefundsByCategory     map[string]decimal.Decimal `json:"refunds_by_category"`
	NetSpendingByCategory map[string]decimal.Decimal `json:"net_spending_by_category"`
}

func toSummaryResponse(s insights.Summary) summaryResponse {
	return summaryResponse{
		TransactionCount:      s.TransactionCount,
		SkippedCount:          s.SkippedCount,
		PeriodStart:           s.PeriodStart,
		PeriodEnd:             s.PeriodEnd,
		OperationalIncome:     s.OperationalIncome,
		OperationalSpending:   s.OperationalSpending,
		TransfersIn:           s.TransfersIn,
		TransfersOut:          s.TransfersOut,
		NetOperationalFlow:    s.NetOperationalFlow,
		NetTransferFlow:       s.NetTransferFlow,
		NetTotalFlow:          s.NetTotalFlow,
		AverageAmount:         s.AverageAmount,
		MedianAmount:          s.MedianAmount,
		SpendingByCategory:    s.SpendingByCategory,
		IncomeByCategory:      s.IncomeByCategory,
		RefundsByCategory:     s.RefundsByCategory,
		NetSpendingByCategory: s.NetSpendingByCategory,
	}
}

type trendRowResponse struct {
	Category       string           `json:"category"`
	Current        decimal.Decimal  `json:"current"`
	Previous       decimal.Decimal  `json:"previous"`
	Change         decimal.Decimal  `json:"change"`
	ChangePercent  *decimal.Decimal `json:"change_percent"`
	InfiniteChange bool             `json:"infinite_change"`
}

type trendsResponse struct {
	CurrentMonth  string `json:"current_month"`
	PreviousMonth string `json:"previous_month"`

	Rows []trendRowResponse `json:"rows"`

	TotalCurrent        decimal.Decimal  `json:"total_current"`
	TotalPrevious       decimal.Decimal  `json:"total_previous"`
	TotalChange         decimal.Decimal  `json:"total_change"`
	TotalChangePercent  *decimal.Decimal `json:"total_change_percent"`
	TotalInfiniteChange bool             `json:"total_infinite_change"`
}

func toTrendsResponse(report *insights.TrendReport) trendsResponse {
	rows := make([]trendRowResponse, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = trendRowResponse{
			Category:       row.Category,
			Current:        row.Current,
			Previous:       row.Previous,
			Change:         row.Change,
			ChangePercent:  row.ChangePercent,
			InfiniteChange: row.InfiniteChange,
		}
	}

	return trendsResponse{
		CurrentMonth:        report.CurrentMonth,
		PreviousMonth:       report.PreviousMonth,
		Rows:                rows,
		TotalCurrent:        report.TotalCurrent,
		TotalPrevious:       report.TotalPrevious,
		TotalChange:         report.TotalChange,
		TotalChangePercent:  report.TotalChangePercent,
		TotalInfiniteChange: report.TotalInfiniteChange,
	}
}

type recurringGroupResponse struct {
	NormalizedDescription string          `json:"normalized_description"`
	Description           string          `json:"description"`
	Category              string          `json:"category"`
	IsIncome              bool            `json:"is_income"`
	AverageAmount         decimal.Decimal `json:"average_amount"`
	Count                 int             `json:"count"`
	Dates                 []string        `json:"dates"`
	IntervalDays          int             `json:"interval_days"`
}

func toRecurringGroupResponse(g insights.RecurringGroup) recurringGroupResponse {
	dates := make([]string, len(g.Dates))
	for i, d := range g.Dates {
		dates[i] = d.Format(time.DateOnly)
	}

	return recurringGroupResponse{
		NormalizedDescription: g.NormalizedDescription,
		Description:           g.Description,
		Category:              g.Category,
		IsIncome:              g.IsIncome,
		AverageAmount:         g.AverageAmount,
		Count:                 g.Count,
		Dates:                 dates,
		IntervalDays:          g.IntervalDays,
	}
}

func toRecurringResponse(groups []insights.RecurringGroup) []recurringGroupResponse {
	resp := make([]recurringGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toRecurringGroupResponse(g)
	}

	return resp
}

type duplicateGroupResponse struct {
	Category string                   `json:"category"`
	Members  []recurringGroupResponse `json:"members"`
	Reason   string                   `json:"reason"`
}

func toDuplicatesResponse(groups []insights.DuplicateGroup) []duplicateGroupResponse {
	resp := make([]duplicateGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = duplicateGroupResponse{
			Category: g.Category,
			Members:  toRecurringResponse(g.Members),
			Reason:   g.Reason,
		}
	}

	return resp
}

type frequentGroupResponse struct {
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Count          int             `json:"count"`
	TotalSpend     decimal.Decimal `json:"total_spend"`
	AverageSpend   decimal.Decimal `json:"average_spend"`
	TransactionIDs []uuid.UUID     `json:"transaction_ids"`
}

func toFrequentResponse(groups []insights.FrequentGroup) []frequentGroupResponse {
	resp := make([]frequentGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = frequentGroupResponse{
			Description:    g.Description,
			Category:       g.Category,
			Count:          g.Count,
			TotalSpend:     g.TotalSpend,
			AverageSpend:   g.AverageSpend,
			TransactionIDs: g.TransactionIDs,
		}
	}

	return resp
}
