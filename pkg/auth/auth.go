// Package auth applies registry credentials to outgoing requests.
package auth

import (
	"net/http"

	"github.com/glorpus-work/pack/pkg/errors"
)

// Authenticator applies credentials to an HTTP request.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type names an authentication scheme.
type Type string

// BearerAuthType is the scheme used by the publish endpoint.
const BearerAuthType Type = "bearer"

// BearerAuth sends an API key as a bearer token.
type BearerAuth struct {
	Token string
}

// Apply sets the Authorization header. An empty token is an auth error so
// no anonymous upload is ever attempted.
func (b BearerAuth) Apply(req *http.Request) error {
	if b.Token == "" {
		return errors.ErrMissingAPIKey
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// Type returns BearerAuthType.
func (b BearerAuth) Type() Type { return BearerAuthType }

// Masked returns the token with all but its last four characters hidden.
func (b BearerAuth) Masked() string {
	const visible = 4
	if len(b.Token) <= visible {
		return "****"
	}
	return "****" + b.Token[len(b.Token)-visible:]
}
