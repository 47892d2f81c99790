package ledgerstore

import (
	"fmt"

	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/domain/account"
)

// RegistryOptions turns the configured classification overrides into
// registry options. Empty settings keep the built-in tables.
func RegistryOptions(cfg *config.ReportingConfig) ([]account.RegistryOption, error) {
	rules, err := account.ParseRules(cfg.BalanceSheetRules)
	if err != nil {
		return nil, fmt.Errorf("REPORT_BUCKET_RULES: %w", err)
	}
	activities, err := account.ParseActivityRules(cfg.ActivityRules)
	if err != nil {
		return nil, fmt.Errorf("REPORT_ACTIVITY_RULES: %w", err)
	}

	return []account.RegistryOption{
		account.WithBalanceSheetRules(rules),
		account.WithActivityRules(activities),
		account.WithCashPrefixes(account.ParsePrefixes(cfg.CashPrefixes)),
	}, nil
}
