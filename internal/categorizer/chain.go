package categorizer

import (
	"fmt"

	"spendscope/internal/config"
	"spendscope/internal/port"
)

// NewFromConfig builds the configured categorizer chain: the primary provider
// alone, or a FallbackCategorizer over primary/secondary/tertiary when more
// than one is configured. Providers must already be registered.
func NewFromConfig(cfg *config.CategorizerConfig) (port.Categorizer, error) {
	var (
		categorizers []port.Categorizer
		names        []string
	)

	for _, pc := range []*config.CategorizerProviderConfig{
		cfg.PrimaryConfig(),
		cfg.SecondaryConfig(),
		cfg.TertiaryConfig(),
	} {
		if pc == nil || pc.Provider == "" {
			continue
		}
		c, err := NewCategorizer(pc)
		if err != nil {
			return nil, fmt.Errorf("building %s categorizer: %w", pc.Provider, err)
		}
		categorizers = append(categorizers, c)
		names = append(names, pc.Provider)
	}

	if len(categorizers) == 0 {
		return nil, fmt.Errorf("no categorizer provider configured")
	}
	if len(categorizers) == 1 {
		return categorizers[0], nil
	}
	return NewFallbackCategorizer(categorizers, names), nil
}
