package categorizer

import (
	"fmt"

	"spendscope/internal/config"
	"spendscope/internal/port"
)

// ProviderFactory is a function that creates a Categorizer from a provider config.
type ProviderFactory func(cfg *config.CategorizerProviderConfig) (port.Categorizer, error)

// registry of categorizer provider factories, populated explicitly via
// RegisterProvider at process startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a categorizer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewCategorizer creates a Categorizer from a provider config using the
// registered factory.
func NewCategorizer(cfg *config.CategorizerProviderConfig) (port.Categorizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown categorizer provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
