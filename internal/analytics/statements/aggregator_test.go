package statements

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func amt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// ledgerBuilder posts balanced two-line entries into an in-memory snapshot
type ledgerBuilder struct {
	t     *testing.T
	seq   int64
	lines []ledger.PostedLine
}

func (b *ledgerBuilder) post(date time.Time, debit, credit string, amount int64) *ledgerBuilder {
	b.t.Helper()
	b.seq++
	entry, err := ledger.NewJournalEntry(ledger.PostingRequest{
		EntryNumber: "JE-" + decimal.NewFromInt(b.seq).String(),
		EntryDate:   date,
		Lines: []ledger.LineRequest{
			{AccountCode: debit, DebitAmount: amt(amount)},
			{AccountCode: credit, CreditAmount: amt(amount)},
		},
	})
	require.NoError(b.t, err)
	for _, l := range entry.Lines {
		b.lines = append(b.lines, ledger.PostedLine{
			EntryID:       entry.ID,
			EntrySequence: b.seq,
			EntryNumber:   entry.EntryNumber,
			EntryDate:     entry.EntryDate,
			AccountName:   "Account " + l.AccountCode,
			Line:          l,
		})
	}
	return b
}

func (b *ledgerBuilder) snapshot(asOf time.Time) ledger.Snapshot {
	return ledger.NewSnapshot(asOf, b.lines)
}

func workshopLedger(t *testing.T) *ledgerBuilder {
	b := &ledgerBuilder{t: t}
	return b.
		post(day(1, 2), "1001", "3001", 10_000_000). // owner capital
		post(day(1, 5), "1501", "1001", 2_000_000).  // lift equipment
		post(day(1, 6), "1001", "2501", 5_000_000).  // bank loan
		post(day(1, 10), "1001", "4001", 1_000).     // labour
		post(day(1, 11), "1001", "4101", 500).       // parts
		post(day(1, 12), "5001", "1201", 300).       // parts cost out of inventory
		post(day(1, 15), "5201", "2101", 100).       // commission accrued
		post(day(1, 20), "5301", "1001", 200).       // utilities paid
		post(day(1, 25), "5401", "2001", 50).        // admin on credit
		post(day(1, 31), "5501", "1501", 25).        // depreciation
		post(day(1, 3), "1201", "1001", 1_000)       // inventory purchase
}

func bucketAmount(t *testing.T, buckets []report.BucketTotal, id account.BucketID) decimal.Decimal {
	t.Helper()
	for _, b := range buckets {
		if b.Bucket == id {
			return b.Amount
		}
	}
	t.Fatalf("bucket %s missing", id)
	return decimal.Zero
}

func january() report.Period {
	return report.Period{Start: day(1, 1), End: day(1, 31)}
}

func TestAggregator_ProfitAndLoss(t *testing.T) {
	snap := workshopLedger(t).snapshot(day(1, 31))
	agg := NewAggregator(account.NewRegistry(nil))

	pl, err := agg.ProfitAndLoss(snap, january())
	require.NoError(t, err)

	assert.True(t, pl.Totals.TotalRevenue.Equal(amt(1500)))
	assert.True(t, pl.Totals.TotalExpenses.Equal(amt(675)))
	assert.True(t, bucketAmount(t, pl.RevenueBuckets, account.BucketServiceRevenue).Equal(amt(1000)))
	assert.True(t, bucketAmount(t, pl.RevenueBuckets, account.BucketOtherRevenue).IsZero())
	assert.True(t, bucketAmount(t, pl.ExpenseBuckets, account.BucketMechanicCommissions).Equal(amt(100)))

	assert.True(t, pl.Breakdown.GrossProfit.Equal(amt(1200)), pl.Breakdown.GrossProfit.String())
	assert.True(t, pl.Breakdown.OperatingProfit.Equal(amt(950)), pl.Breakdown.OperatingProfit.String())
	assert.True(t, pl.Breakdown.NetProfit.Equal(amt(925)), pl.Breakdown.NetProfit.String())
	assert.True(t, pl.Breakdown.MechanicCommissions.Equal(amt(100)))
	assert.True(t, pl.Breakdown.GrossMarginPercent.Equal(amt(80)))
	assert.True(t, pl.Breakdown.NetMarginPercent.Equal(decimal.RequireFromString("61.67")))
	assert.Empty(t, pl.Unclassified)

	require.Len(t, pl.RevenueBuckets, 3)
	require.Len(t, pl.ExpenseBuckets, 5)
	require.Len(t, pl.RevenueBuckets[0].Accounts, 1)
	assert.Equal(t, "4001", pl.RevenueBuckets[0].Accounts[0].Code)
	assert.Equal(t, "Account 4001", pl.RevenueBuckets[0].Accounts[0].Name)
}

func TestAggregator_ProfitAndLoss_PeriodFilter(t *testing.T) {
	snap := workshopLedger(t).snapshot(day(1, 31))
	agg := NewAggregator(account.NewRegistry(nil))

	pl, err := agg.ProfitAndLoss(snap, report.Period{Start: day(1, 11), End: day(1, 11)})
	require.NoError(t, err)
	assert.True(t, pl.Totals.TotalRevenue.Equal(amt(500)))
	assert.True(t, pl.Totals.TotalExpenses.IsZero())

	_, err = agg.ProfitAndLoss(snap, report.Period{Start: day(1, 31), End: day(1, 1)})
	assert.ErrorIs(t, err, report.ErrInvalidPeriod)
}

func TestAggregator_BucketCompleteness(t *testing.T) {
	snap := workshopLedger(t).snapshot(day(1, 31))
	agg := NewAggregator(account.NewRegistry(nil))

	pl, err := agg.ProfitAndLoss(snap, january())
	require.NoError(t, err)

	bucketSum := decimal.Zero
	accountSum := decimal.Zero
	for _, b := range append(pl.RevenueBuckets, pl.ExpenseBuckets...) {
		bucketSum = bucketSum.Add(b.Amount)
		for _, a := range b.Accounts {
			accountSum = accountSum.Add(a.Amount)
		}
	}
	assert.True(t, bucketSum.Equal(pl.Totals.TotalRevenue.Add(pl.Totals.TotalExpenses)))
	assert.True(t, accountSum.Equal(bucketSum))
}

func TestAggregator_Idempotent(t *testing.T) {
	snap := workshopLedger(t).snapshot(day(1, 31))
	agg := NewAggregator(account.NewRegistry(nil))

	render := func() []byte {
		pl, err := agg.ProfitAndLoss(snap, january())
		require.NoError(t, err)
		bs, err := agg.BalanceSheet(snap, january())
		require.NoError(t, err)
		cf, err := agg.CashFlow(snap, january())
		require.NoError(t, err)
		out, err := json.Marshal([]any{pl, bs, cf})
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, string(render()), string(render()))
}

func TestAggregator_Unclassified(t *testing.T) {
	b := workshopLedger(t).post(day(1, 20), "9001", "4201", 70)
	snap := b.snapshot(day(1, 31))

	t.Run("Warning", func(t *testing.T) {
		pl, err := NewAggregator(account.NewRegistry(nil)).ProfitAndLoss(snap, january())
		require.NoError(t, err)

		require.Len(t, pl.Unclassified, 1)
		warn := pl.Unclassified[0]
		assert.Equal(t, "9001", warn.AccountCode)
		assert.True(t, warn.DebitTotal.Equal(amt(70)))
		assert.True(t, warn.CreditTotal.IsZero())
		assert.Equal(t, 1, warn.LineCount)
		assert.True(t, pl.Totals.TotalRevenue.Equal(amt(1570)))
	})

	t.Run("Strict", func(t *testing.T) {
		agg := NewAggregator(account.NewRegistry(nil), WithStrictClassification(true))
		_, err := agg.ProfitAndLoss(snap, january())
		require.Error(t, err)
		assert.ErrorIs(t, err, UnclassifiedAccountError{})
		assert.Contains(t, err.Error(), "9001")

		_, err = agg.BalanceSheet(snap, january())
		assert.ErrorIs(t, err, UnclassifiedAccountError{})
	})
}

func TestAggregator_BalanceSheet(t *testing.T) {
	snap := workshopLedger(t).snapshot(day(1, 31))
	agg := NewAggregator(account.NewRegistry(nil))

	bs, err := agg.BalanceSheet(snap, report.Period{End: day(1, 31)})
	require.NoError(t, err)

	// cash: 10,000,000 - 2,000,000 + 5,000,000 + 1,000 + 500 - 200 - 1,000
	assert.True(t, bucketAmount(t, bs.AssetBuckets, account.BucketCash).Equal(amt(13_000_300)))
	assert.True(t, bucketAmount(t, bs.AssetBuckets, account.BucketInventory).Equal(amt(700)))
	assert.True(t, bucketAmount(t, bs.AssetBuckets, account.BucketFixedAssets).Equal(amt(1_999_975)))
	assert.True(t, bucketAmount(t, bs.LiabilityBuckets, account.BucketLoans).Equal(amt(5_000_000)))
	assert.True(t, bucketAmount(t, bs.LiabilityBuckets, account.BucketAccruedLiabilities).Equal(amt(100)))
	assert.True(t, bucketAmount(t, bs.EquityBuckets, account.BucketOwnerCapital).Equal(amt(10_000_000)))
	assert.True(t, bucketAmount(t, bs.EquityBuckets, account.BucketCurrentEarnings).Equal(amt(825)))

	assert.True(t, bs.Totals.TotalAssets.Equal(amt(15_000_975)))
	assert.True(t, bs.Totals.TotalLiabilities.Equal(amt(5_000_150)))
	assert.True(t, bs.Totals.TotalEquity.Equal(amt(10_000_825)))
	assert.True(t, bs.Totals.TotalAssets.Equal(bs.Totals.LiabilitiesAndEquity))
	assert.True(t, bs.Totals.Balanced)
}

func TestAggregator_CashFlow(t *testing.T) {
	b := workshopLedger(t)
	b.post(day(2, 3), "1001", "4001", 4_000)  // labour
	b.post(day(2, 4), "5301", "1001", 700)    // rent
	b.post(day(2, 9), "1501", "1001", 900)    // tools
	b.post(day(2, 12), "2501", "1001", 1_000) // loan repayment
	b.post(day(2, 14), "1101", "4101", 300)   // parts on account, no cash
	snap := b.snapshot(day(2, 28))
	agg := NewAggregator(account.NewRegistry(nil))

	cf, err := agg.CashFlow(snap, report.Period{Start: day(2, 1), End: day(2, 28)})
	require.NoError(t, err)

	assert.True(t, cf.OpeningCash.Equal(amt(13_000_300)), cf.OpeningCash.String())
	assert.True(t, cf.Operating.Amount.Equal(amt(3_300)), cf.Operating.Amount.String())
	assert.True(t, cf.Investing.Amount.Equal(amt(-900)))
	assert.True(t, cf.Financing.Amount.Equal(amt(-1_000)))
	assert.True(t, cf.NetChange.Equal(amt(1_400)))
	assert.True(t, cf.ClosingCash.Equal(amt(13_001_700)))
	assert.True(t, cf.ClosingCash.Sub(cf.OpeningCash).Equal(cf.NetChange))
	assert.Equal(t, account.ActivityOperating, cf.Operating.Activity)
	assert.Empty(t, cf.Unclassified)

	t.Run("SinceInception", func(t *testing.T) {
		cf, err := agg.CashFlow(snap, report.Period{End: day(2, 28)})
		require.NoError(t, err)
		assert.True(t, cf.OpeningCash.IsZero())
		assert.True(t, cf.ClosingCash.Equal(cf.NetChange))
		assert.True(t, cf.Financing.Amount.Equal(amt(14_999_000)))
	})
}

func TestAggregator_MonthlyExpenses(t *testing.T) {
	b := workshopLedger(t).post(day(2, 4), "5301", "1001", 700)
	agg := NewAggregator(account.NewRegistry(nil))

	expenses := agg.MonthlyExpenses(b.snapshot(day(2, 28)), report.Period{End: day(2, 28)})
	assert.Equal(t, map[string]float64{"2025-01": 675, "2025-02": 700}, expenses)
}
