package services

import (
	"fmt"

	"casino/models"
	"casino/providers"
)

// AggregatorFactory builds an aggregator client from freshly loaded settings.
type AggregatorFactory func(setting models.ApiSetting) (providers.Aggregator, error)

// RegistryFactory resolves the client constructor registered under the
// settings' provider name.
func RegistryFactory(opts providers.Options) AggregatorFactory {
	return func(setting models.ApiSetting) (providers.Aggregator, error) {
		factory := providers.Get(setting.Provider)
		if factory == nil {
			return nil, fmt.Errorf("%w: no client registered for %q", ErrProviderUnconfigured, setting.Provider)
		}
		return factory(providers.Credentials{
			AgentToken: setting.AgentToken,
			SecretKey:  setting.SecretKey,
		}, opts), nil
	}
}
