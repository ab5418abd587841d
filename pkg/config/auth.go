package config

import (
	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/errors"
)

// Authenticator returns the bearer credentials used for publishing. An
// explicit key wins over the configured api_key; with neither, the result is
// an auth error.
func (c *Config) Authenticator(explicitKey string) (auth.Authenticator, error) {
	key := explicitKey
	if key == "" {
		key = c.APIKey()
	}
	if key == "" {
		return nil, errors.ErrMissingAPIKey
	}
	return &auth.BearerAuth{Token: key}, nil
}
