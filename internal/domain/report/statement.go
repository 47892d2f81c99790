// Package report holds the derived financial statements and the versioned
// document they are published in. Statements are computed on demand from
// the ledger; stored documents are a cache only.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workshop-financial-engine/internal/domain/account"
)

// ErrInvalidPeriod is returned when a period ends before it starts
var ErrInvalidPeriod = errors.New("period end must not be before period start")

// ErrUnknownReportType is returned for a statement kind the engine cannot compute
var ErrUnknownReportType = errors.New("unknown report type")

// Type names a statement kind
type Type string

const (
	TypeProfitAndLoss Type = "profit_loss"
	TypeBalanceSheet  Type = "balance_sheet"
	TypeCashFlow      Type = "cash_flow"
)

// ParseType accepts the type name or its URL slug ("profit-loss")
func ParseType(s string) (Type, error) {
	switch Type(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")) {
	case TypeProfitAndLoss:
		return TypeProfitAndLoss, nil
	case TypeBalanceSheet:
		return TypeBalanceSheet, nil
	case TypeCashFlow:
		return TypeCashFlow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReportType, s)
}

// Period is an inclusive date range. A zero Start means "since inception".
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the period bounds
func (p Period) Validate() error {
	if p.End.IsZero() {
		return ErrInvalidPeriod
	}
	if !p.Start.IsZero() && p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// AccountTotal is one account's contribution to a bucket
type AccountTotal struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BucketTotal is the summed amount of one statement bucket
type BucketTotal struct {
	Bucket   account.BucketID `json:"bucket"`
	Name     string           `json:"name"`
	Amount   decimal.Decimal  `json:"amount"`
	Accounts []AccountTotal   `json:"accounts"`
}

// UnclassifiedAccountWarning reports lines whose account code matched no rule.
// Their amounts are excluded from every total.
type UnclassifiedAccountWarning struct {
	AccountCode string          `json:"account_code"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	LineCount   int             `json:"line_count"`
}

// ProfitAndLossTotals are the section sums
type ProfitAndLossTotals struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// ProfitBreakdown walks revenue down to net profit
type ProfitBreakdown struct {
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	OperatingProfit     decimal.Decimal `json:"operating_profit"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	MechanicCommissions decimal.Decimal `json:"mechanic_commissions"`
	GrossMarginPercent  decimal.Decimal `json:"gross_margin_percent"`
	NetMarginPercent    decimal.Decimal `json:"net_margin_percent"`
}

// ProfitAndLoss is the income statement for a period
type ProfitAndLoss struct {
	Period         Period                       `json:"period"`
	RevenueBuckets []BucketTotal                `json:"revenue_buckets"`
	ExpenseBuckets []BucketTotal                `json:"expense_buckets"`
	Totals         ProfitAndLossTotals          `json:"totals"`
	Breakdown      ProfitBreakdown              `json:"profit_breakdown"`
	Unclassified   []UnclassifiedAccountWarning `json:"unclassified"`
}

// BalanceSheetTotals carries the accounting identity check
type BalanceSheetTotals struct {
	TotalAssets          decimal.Decimal `json:"total_assets"`
	TotalLiabilities     decimal.Decimal `json:"total_liabilities"`
	TotalEquity          decimal.Decimal `json:"total_equity"`
	LiabilitiesAndEquity decimal.Decimal `json:"liabilities_and_equity"`
	Balanced             bool            `json:"balanced"`
}

// BalanceSheet is the statement of financial position
type BalanceSheet struct {
	Period           Period                       `json:"period"`
	AssetBuckets     []BucketTotal                `json:"asset_buckets"`
	LiabilityBuckets []BucketTotal                `json:"liability_buckets"`
	EquityBuckets    []BucketTotal                `json:"equity_buckets"`
	Totals           BalanceSheetTotals           `json:"totals"`
	Unclassified     []UnclassifiedAccountWarning `json:"unclassified"`
}

// ActivityTotal is net cash generated by one activity
type ActivityTotal struct {
	Activity account.Activity `json:"activity"`
	Amount   decimal.Decimal  `json:"amount"`
	Accounts []AccountTotal   `json:"accounts"`
}

// CashFlow is the direct-method cash flow statement
type CashFlow struct {
	Period       Period                       `json:"period"`
	Operating    ActivityTotal                `json:"operating"`
	Investing    ActivityTotal                `json:"investing"`
	Financing    ActivityTotal                `json:"financing"`
	NetChange    decimal.Decimal              `json:"net_change"`
	OpeningCash  decimal.Decimal              `json:"opening_cash"`
	ClosingCash  decimal.Decimal              `json:"closing_cash"`
	Unclassified []UnclassifiedAccountWarning `json:"unclassified"`
}
