// Package statements derives profit & loss, balance sheet and cash flow
// statements from a ledger snapshot. Every function is pure: the same
// snapshot, registry and period always produce the same statement.
package statements

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

var hundred = decimal.NewFromInt(100)

// UnclassifiedAccountError is returned in strict mode when lines fall outside
// every bucket
type UnclassifiedAccountError struct {
	Codes []string
}

func (e UnclassifiedAccountError) Error() string {
	return "ledger has lines on unclassified accounts: " + strings.Join(e.Codes, ", ")
}

// Is matches any UnclassifiedAccountError
func (e UnclassifiedAccountError) Is(target error) bool {
	_, ok := target.(UnclassifiedAccountError)
	return ok
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithStrictClassification makes unclassified lines an error instead of a warning
func WithStrictClassification(strict bool) Option {
	return func(a *Aggregator) {
		a.strict = strict
	}
}

// Aggregator buckets ledger lines through an account registry
type Aggregator struct {
	registry *account.Registry
	strict   bool
}

// NewAggregator creates an aggregator bound to one registry snapshot
func NewAggregator(registry *account.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{registry: registry}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProfitAndLoss sums revenue and expense buckets for lines dated in the period
func (a *Aggregator) ProfitAndLoss(snap ledger.Snapshot, period report.Period) (*report.ProfitAndLoss, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	acc := newAccumulator()
	warnings := newWarnings()
	for _, line := range snap.Between(period.Start, period.End) {
		bucket, ok := a.registry.Classify(line.AccountCode)
		if !ok {
			warnings.add(line)
			continue
		}
		switch bucket.Section {
		case account.SectionRevenue:
			acc.add(bucket.ID, line, creditNormal(line))
		case account.SectionExpense:
			acc.add(bucket.ID, line, debitNormal(line))
		}
	}
	if err := a.check(warnings); err != nil {
		return nil, err
	}

	revenue := acc.totals(a.registry.Buckets(account.SectionRevenue))
	expenses := acc.totals(a.registry.Buckets(account.SectionExpense))
	totalRevenue, totalExpenses := sum(revenue), sum(expenses)

	gross := totalRevenue.Sub(acc.amount(account.BucketCostOfGoodsSold))
	operating := gross.
		Sub(acc.amount(account.BucketOperatingExpenses)).
		Sub(acc.amount(account.BucketAdministrative))
	net := operating.Sub(acc.amount(account.BucketDepreciation))

	return &report.ProfitAndLoss{
		Period:         period,
		RevenueBuckets: revenue,
		ExpenseBuckets: expenses,
		Totals: report.ProfitAndLossTotals{
			TotalRevenue:  totalRevenue,
			TotalExpenses: totalExpenses,
		},
		Breakdown: report.ProfitBreakdown{
			GrossProfit:         gross,
			OperatingProfit:     operating,
			NetProfit:           net,
			MechanicCommissions: acc.amount(account.BucketMechanicCommissions),
			GrossMarginPercent:  percentOf(gross, totalRevenue),
			NetMarginPercent:    percentOf(net, totalRevenue),
		},
		Unclassified: warnings.list(),
	}, nil
}

// BalanceSheet sums asset, liability and equity buckets for lines dated in
// the period. Revenue and expense lines of the same period are carried into
// equity as current earnings, so a balanced ledger yields a balanced sheet.
func (a *Aggregator) BalanceSheet(snap ledger.Snapshot, period report.Period) (*report.BalanceSheet, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	acc := newAccumulator()
	warnings := newWarnings()
	earnings := decimal.Zero
	for _, line := range snap.Between(period.Start, period.End) {
		bucket, ok := a.registry.Classify(line.AccountCode)
		if !ok {
			warnings.add(line)
			continue
		}
		switch bucket.Section {
		case account.SectionAsset:
			acc.add(bucket.ID, line, debitNormal(line))
		case account.SectionLiability, account.SectionEquity:
			acc.add(bucket.ID, line, creditNormal(line))
		case account.SectionRevenue, account.SectionExpense:
			earnings = earnings.Add(creditNormal(line))
		}
	}
	if err := a.check(warnings); err != nil {
		return nil, err
	}

	assets := acc.totals(a.registry.Buckets(account.SectionAsset))
	liabilities := acc.totals(a.registry.Buckets(account.SectionLiability))
	equity := append(acc.totals(a.registry.Buckets(account.SectionEquity)), report.BucketTotal{
		Bucket:   account.BucketCurrentEarnings,
		Name:     "Current Period Earnings",
		Amount:   earnings,
		Accounts: []report.AccountTotal{},
	})

	totalAssets, totalLiabilities, totalEquity := sum(assets), sum(liabilities), sum(equity)
	liabilitiesAndEquity := totalLiabilities.Add(totalEquity)

	return &report.BalanceSheet{
		Period:           period,
		AssetBuckets:     assets,
		LiabilityBuckets: liabilities,
		EquityBuckets:    equity,
		Totals: report.BalanceSheetTotals{
			TotalAssets:          totalAssets,
			TotalLiabilities:     totalLiabilities,
			TotalEquity:          totalEquity,
			LiabilitiesAndEquity: liabilitiesAndEquity,
			Balanced:             !totalAssets.Sub(liabilitiesAndEquity).Abs().GreaterThan(ledger.BalanceTolerance),
		},
		Unclassified: warnings.list(),
	}, nil
}

// CashFlow attributes every cash movement in the period to the activity of
// the counterpart lines of its entry. Opening cash is the cash balance of all
// lines dated before the period start.
func (a *Aggregator) CashFlow(snap ledger.Snapshot, period report.Period) (*report.CashFlow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if !period.Start.IsZero() {
		for _, line := range snap.Before(period.Start) {
			if a.registry.IsCash(line.AccountCode) {
				opening = opening.Add(debitNormal(line))
			}
		}
	}

	acc := newAccumulator()
	warnings := newWarnings()
	cashDelta := decimal.Zero
	for _, entry := range groupByEntry(snap.Between(period.Start, period.End)) {
		touchesCash := false
		for _, line := range entry {
			if a.registry.IsCash(line.AccountCode) {
				touchesCash = true
				cashDelta = cashDelta.Add(debitNormal(line))
			}
		}
		if !touchesCash {
			continue
		}
		for _, line := range entry {
			if a.registry.IsCash(line.AccountCode) {
				continue
			}
			activity, ok := a.registry.Activity(line.AccountCode)
			if !ok {
				warnings.add(line)
				continue
			}
			acc.add(account.BucketID(activity), line, creditNormal(line))
		}
	}
	if err := a.check(warnings); err != nil {
		return nil, err
	}

	operating := acc.activity(account.ActivityOperating)
	investing := acc.activity(account.ActivityInvesting)
	financing := acc.activity(account.ActivityFinancing)

	return &report.CashFlow{
		Period:       period,
		Operating:    operating,
		Investing:    investing,
		Financing:    financing,
		NetChange:    operating.Amount.Add(investing.Amount).Add(financing.Amount),
		OpeningCash:  opening,
		ClosingCash:  opening.Add(cashDelta),
		Unclassified: warnings.list(),
	}, nil
}

// MonthlyExpenses sums expense-section lines per calendar month, keyed "2006-01"
func (a *Aggregator) MonthlyExpenses(snap ledger.Snapshot, period report.Period) map[string]float64 {
	out := make(map[string]float64)
	for _, line := range snap.Between(period.Start, period.End) {
		bucket, ok := a.registry.Classify(line.AccountCode)
		if !ok || bucket.Section != account.SectionExpense {
			continue
		}
		key := line.EntryDate.Format("2006-01")
		out[key] += debitNormal(line).InexactFloat64()
	}
	return out
}

func (a *Aggregator) check(w *warnings) error {
	if a.strict && len(w.byCode) > 0 {
		return UnclassifiedAccountError{Codes: w.codes()}
	}
	return nil
}

func debitNormal(l ledger.PostedLine) decimal.Decimal {
	return l.DebitAmount().Sub(l.CreditAmount())
}

func creditNormal(l ledger.PostedLine) decimal.Decimal {
	return l.CreditAmount().Sub(l.DebitAmount())
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func sum(buckets []report.BucketTotal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Amount)
	}
	return total
}

// groupByEntry keeps snapshot order, which is entry date then sequence
func groupByEntry(lines []ledger.PostedLine) [][]ledger.PostedLine {
	var (
		groups [][]ledger.PostedLine
		index  = make(map[int64]int)
	)
	for _, line := range lines {
		i, ok := index[line.EntrySequence]
		if !ok {
			i = len(groups)
			index[line.EntrySequence] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], line)
	}
	return groups
}

type accountSum struct {
	name   string
	amount decimal.Decimal
}

// accumulator tracks per-bucket, per-account sums
type accumulator struct {
	buckets map[account.BucketID]map[string]*accountSum
}

func newAccumulator() *accumulator {
	return &accumulator{buckets: make(map[account.BucketID]map[string]*accountSum)}
}

func (a *accumulator) add(id account.BucketID, line ledger.PostedLine, amount decimal.Decimal) {
	accounts, ok := a.buckets[id]
	if !ok {
		accounts = make(map[string]*accountSum)
		a.buckets[id] = accounts
	}
	s, ok := accounts[line.AccountCode]
	if !ok {
		s = &accountSum{name: line.AccountName, amount: decimal.Zero}
		accounts[line.AccountCode] = s
	}
	s.amount = s.amount.Add(amount)
}

func (a *accumulator) amount(id account.BucketID) decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.buckets[id] {
		total = total.Add(s.amount)
	}
	return total
}

func (a *accumulator) accounts(id account.BucketID) []report.AccountTotal {
	out := make([]report.AccountTotal, 0, len(a.buckets[id]))
	for code, s := range a.buckets[id] {
		out = append(out, report.AccountTotal{Code: code, Name: s.name, Amount: s.amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// totals emits every bucket in rule order, including empty ones
func (a *accumulator) totals(buckets []account.Bucket) []report.BucketTotal {
	out := make([]report.BucketTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, report.BucketTotal{
			Bucket:   b.ID,
			Name:     b.Name,
			Amount:   a.amount(b.ID),
			Accounts: a.accounts(b.ID),
		})
	}
	return out
}

func (a *accumulator) activity(act account.Activity) report.ActivityTotal {
	id := account.BucketID(act)
	return report.ActivityTotal{Activity: act, Amount: a.amount(id), Accounts: a.accounts(id)}
}

type warnings struct {
	byCode map[string]*report.UnclassifiedAccountWarning
}

func newWarnings() *warnings {
	return &warnings{byCode: make(map[string]*report.UnclassifiedAccountWarning)}
}

func (w *warnings) add(line ledger.PostedLine) {
	warn, ok := w.byCode[line.AccountCode]
	if !ok {
		warn = &report.UnclassifiedAccountWarning{
			AccountCode: line.AccountCode,
			DebitTotal:  decimal.Zero,
			CreditTotal: decimal.Zero,
		}
		w.byCode[line.AccountCode] = warn
	}
	warn.DebitTotal = warn.DebitTotal.Add(line.DebitAmount())
	warn.CreditTotal = warn.CreditTotal.Add(line.CreditAmount())
	warn.LineCount++
}

func (w *warnings) codes() []string {
	codes := make([]string, 0, len(w.byCode))
	for code := range w.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (w *warnings) list() []report.UnclassifiedAccountWarning {
	out := make([]report.UnclassifiedAccountWarning, 0, len(w.byCode))
	for _, code := range w.codes() {
		out = append(out, *w.byCode[code])
	}
	return out
}
