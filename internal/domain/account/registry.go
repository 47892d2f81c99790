package account

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Registry is an immutable snapshot of the chart of accounts together with
// the prefix rules that place each account code into a statement bucket.
// Build one per report call; it is safe for concurrent reads.
type Registry struct {
	accounts      map[string]Account
	rules         []Rule
	activityRules []ActivityRule
	cashPrefixes  []string
	fingerprint   string
}

// RegistryOption customises the classification tables
type RegistryOption func(*Registry)

// WithBalanceSheetRules replaces the asset, liability and equity rules.
// The revenue and expense rules always stay in place.
func WithBalanceSheetRules(rules []Rule) RegistryOption {
	return func(r *Registry) {
		if len(rules) == 0 {
			return
		}
		r.rules = append(DefaultProfitAndLossRules(), rules...)
	}
}

// WithActivityRules replaces the cash-flow activity rules
func WithActivityRules(rules []ActivityRule) RegistryOption {
	return func(r *Registry) {
		if len(rules) > 0 {
			r.activityRules = rules
		}
	}
}

// WithCashPrefixes replaces the prefixes identifying cash accounts
func WithCashPrefixes(prefixes []string) RegistryOption {
	return func(r *Registry) {
		if len(prefixes) > 0 {
			r.cashPrefixes = prefixes
		}
	}
}

// NewRegistry builds a registry from the chart of accounts
func NewRegistry(accounts []Account, opts ...RegistryOption) *Registry {
	r := &Registry{
		accounts:      make(map[string]Account, len(accounts)),
		rules:         append(DefaultProfitAndLossRules(), DefaultBalanceSheetRules()...),
		activityRules: DefaultActivityRules(),
		cashPrefixes:  DefaultCashPrefixes(),
	}
	for _, acc := range accounts {
		r.accounts[acc.Code] = acc
	}
	for _, opt := range opts {
		opt(r)
	}
	r.fingerprint = r.computeFingerprint()
	return r
}

// Classify returns the bucket of the longest rule prefix matching code
func (r *Registry) Classify(code string) (Bucket, bool) {
	best := -1
	for i, rule := range r.rules {
		if strings.HasPrefix(code, rule.Prefix) && (best < 0 || len(rule.Prefix) > len(r.rules[best].Prefix)) {
			best = i
		}
	}
	if best < 0 {
		return Bucket{}, false
	}
	return r.rules[best].Bucket, true
}

// Activity returns the cash-flow activity for code by longest prefix
func (r *Registry) Activity(code string) (Activity, bool) {
	var (
		match   Activity
		longest = -1
	)
	for _, rule := range r.activityRules {
		if strings.HasPrefix(code, rule.Prefix) && len(rule.Prefix) > longest {
			match, longest = rule.Activity, len(rule.Prefix)
		}
	}
	return match, longest >= 0
}

// IsCash reports whether code is a cash or bank account
func (r *Registry) IsCash(code string) bool {
	for _, p := range r.cashPrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Account looks up an account by code
func (r *Registry) Account(code string) (Account, bool) {
	acc, ok := r.accounts[code]
	return acc, ok
}

// Exists reports whether code is in the chart, active or not
func (r *Registry) Exists(code string) bool {
	_, ok := r.accounts[code]
	return ok
}

// CheckPostable returns an error unless code names an active account
func (r *Registry) CheckPostable(code string) error {
	acc, ok := r.accounts[code]
	if !ok {
		return ErrAccountNotFound{Code: code}
	}
	if !acc.Active {
		return ErrInactiveAccount{Code: code}
	}
	return nil
}

// Buckets lists the buckets of a section in rule order, without duplicates
func (r *Registry) Buckets(section Section) []Bucket {
	seen := make(map[BucketID]bool)
	var out []Bucket
	for _, rule := range r.rules {
		if rule.Bucket.Section != section || seen[rule.Bucket.ID] {
			continue
		}
		seen[rule.Bucket.ID] = true
		out = append(out, rule.Bucket)
	}
	return out
}

// Accounts returns the chart sorted by code
func (r *Registry) Accounts() []Account {
	out := make([]Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Fingerprint is a content hash of the chart and every rule table.
// Two registries with the same fingerprint classify identically.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func (r *Registry) computeFingerprint() string {
	h := sha256.New()
	for _, acc := range r.Accounts() {
		fmt.Fprintf(h, "a|%s|%s|%s|%s|%t\n", acc.Code, acc.Name, acc.Type, acc.ParentCode, acc.Active)
	}
	for _, rule := range r.rules {
		fmt.Fprintf(h, "r|%s|%s|%s|%s\n", rule.Prefix, rule.Bucket.ID, rule.Bucket.Name, rule.Bucket.Section)
	}
	for _, rule := range r.activityRules {
		fmt.Fprintf(h, "f|%s|%s\n", rule.Prefix, rule.Activity)
	}
	for _, p := range r.cashPrefixes {
		fmt.Fprintf(h, "c|%s\n", p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
