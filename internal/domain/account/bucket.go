package account

import (
	"fmt"
	"strings"
)

// Section is the statement section a bucket belongs to
type Section string

const (
	SectionRevenue   Section = "revenue"
	SectionExpense   Section = "expense"
	SectionAsset     Section = "asset"
	SectionLiability Section = "liability"
	SectionEquity    Section = "equity"
)

// BucketID identifies a statement line group
type BucketID string

// Profit & loss buckets
const (
	BucketServiceRevenue      BucketID = "service_revenue"
	BucketProductRevenue      BucketID = "product_revenue"
	BucketOtherRevenue        BucketID = "other_revenue"
	BucketCostOfGoodsSold     BucketID = "cost_of_goods_sold"
	BucketMechanicCommissions BucketID = "mechanic_commissions"
	BucketOperatingExpenses   BucketID = "operating_expenses"
	BucketAdministrative      BucketID = "administrative_expenses"
	BucketDepreciation        BucketID = "depreciation"
)

// Balance sheet buckets
const (
	BucketCash               BucketID = "cash"
	BucketReceivables        BucketID = "receivables"
	BucketInventory          BucketID = "inventory"
	BucketFixedAssets        BucketID = "fixed_assets"
	BucketPayables           BucketID = "payables"
	BucketAccruedLiabilities BucketID = "accrued_liabilities"
	BucketLoans              BucketID = "loans"
	BucketOwnerCapital       BucketID = "owner_capital"
	BucketRetainedEarnings   BucketID = "retained_earnings"
	BucketCurrentEarnings    BucketID = "current_earnings"
)

// Bucket is a named group of accounts within a statement section
type Bucket struct {
	ID      BucketID `json:"id"`
	Name    string   `json:"name"`
	Section Section  `json:"section"`
}

// Rule maps an account code prefix to a bucket
type Rule struct {
	Prefix string
	Bucket Bucket
}

// Activity is a cash-flow statement category
type Activity string

const (
	ActivityOperating Activity = "operating"
	ActivityInvesting Activity = "investing"
	ActivityFinancing Activity = "financing"
)

// ActivityRule maps an account code prefix to a cash-flow activity
type ActivityRule struct {
	Prefix   string
	Activity Activity
}

// DefaultProfitAndLossRules is the workshop revenue and expense classification
func DefaultProfitAndLossRules() []Rule {
	return []Rule{
		{Prefix: "400", Bucket: Bucket{ID: BucketServiceRevenue, Name: "Service Revenue", Section: SectionRevenue}},
		{Prefix: "410", Bucket: Bucket{ID: BucketProductRevenue, Name: "Product Revenue", Section: SectionRevenue}},
		{Prefix: "420", Bucket: Bucket{ID: BucketOtherRevenue, Name: "Other Revenue", Section: SectionRevenue}},
		{Prefix: "500", Bucket: Bucket{ID: BucketCostOfGoodsSold, Name: "Cost of Goods Sold", Section: SectionExpense}},
		{Prefix: "520", Bucket: Bucket{ID: BucketMechanicCommissions, Name: "Mechanic Commissions", Section: SectionExpense}},
		{Prefix: "530", Bucket: Bucket{ID: BucketOperatingExpenses, Name: "Operating Expenses", Section: SectionExpense}},
		{Prefix: "540", Bucket: Bucket{ID: BucketAdministrative, Name: "Administrative Expenses", Section: SectionExpense}},
		{Prefix: "550", Bucket: Bucket{ID: BucketDepreciation, Name: "Depreciation", Section: SectionExpense}},
	}
}

// DefaultBalanceSheetRules is the built-in asset, liability and equity classification
func DefaultBalanceSheetRules() []Rule {
	return []Rule{
		{Prefix: "100", Bucket: Bucket{ID: BucketCash, Name: "Cash and Bank", Section: SectionAsset}},
		{Prefix: "110", Bucket: Bucket{ID: BucketReceivables, Name: "Accounts Receivable", Section: SectionAsset}},
		{Prefix: "120", Bucket: Bucket{ID: BucketInventory, Name: "Inventory", Section: SectionAsset}},
		{Prefix: "150", Bucket: Bucket{ID: BucketFixedAssets, Name: "Fixed Assets", Section: SectionAsset}},
		{Prefix: "200", Bucket: Bucket{ID: BucketPayables, Name: "Accounts Payable", Section: SectionLiability}},
		{Prefix: "210", Bucket: Bucket{ID: BucketAccruedLiabilities, Name: "Accrued Liabilities", Section: SectionLiability}},
		{Prefix: "250", Bucket: Bucket{ID: BucketLoans, Name: "Loans Payable", Section: SectionLiability}},
		{Prefix: "300", Bucket: Bucket{ID: BucketOwnerCapital, Name: "Owner Capital", Section: SectionEquity}},
		{Prefix: "310", Bucket: Bucket{ID: BucketRetainedEarnings, Name: "Retained Earnings", Section: SectionEquity}},
	}
}

// DefaultActivityRules classifies the counterpart of a cash movement
func DefaultActivityRules() []ActivityRule {
	return []ActivityRule{
		{Prefix: "4", Activity: ActivityOperating},
		{Prefix: "5", Activity: ActivityOperating},
		{Prefix: "11", Activity: ActivityOperating},
		{Prefix: "12", Activity: ActivityOperating},
		{Prefix: "20", Activity: ActivityOperating},
		{Prefix: "21", Activity: ActivityOperating},
		{Prefix: "15", Activity: ActivityInvesting},
		{Prefix: "25", Activity: ActivityFinancing},
		{Prefix: "3", Activity: ActivityFinancing},
	}
}

// DefaultCashPrefixes lists the prefixes of cash and bank accounts
func DefaultCashPrefixes() []string {
	return []string{"100"}
}

// ParseRules parses "prefix:bucket_id:section[:name]" items separated by commas.
// An empty string yields nil so callers can fall back to defaults.
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule
	for _, item := range splitList(s) {
		parts := strings.Split(item, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("invalid bucket rule %q: want prefix:bucket:section[:name]", item)
		}
		section := Section(parts[2])
		switch section {
		case SectionRevenue, SectionExpense, SectionAsset, SectionLiability, SectionEquity:
		default:
			return nil, fmt.Errorf("invalid bucket rule %q: unknown section %q", item, parts[2])
		}
		name := parts[1]
		if len(parts) == 4 {
			name = parts[3]
		}
		rules = append(rules, Rule{
			Prefix: parts[0],
			Bucket: Bucket{ID: BucketID(parts[1]), Name: name, Section: section},
		})
	}
	return rules, nil
}

// ParseActivityRules parses "prefix:activity" items separated by commas
func ParseActivityRules(s string) ([]ActivityRule, error) {
	var rules []ActivityRule
	for _, item := range splitList(s) {
		prefix, activity, ok := strings.Cut(item, ":")
		if !ok || prefix == "" {
			return nil, fmt.Errorf("invalid activity rule %q: want prefix:activity", item)
		}
		switch Activity(activity) {
		case ActivityOperating, ActivityInvesting, ActivityFinancing:
		default:
			return nil, fmt.Errorf("invalid activity rule %q: unknown activity %q", item, activity)
		}
		rules = append(rules, ActivityRule{Prefix: prefix, Activity: Activity(activity)})
	}
	return rules, nil
}

// ParsePrefixes parses a comma separated prefix list
func ParsePrefixes(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
