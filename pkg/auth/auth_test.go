package auth_test

import (
	"net/http"
	"testing"

	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
		wantErr  error
	}{
		{name: "valid token", token: "pk_live_123", expected: "Bearer pk_live_123"},
		{name: "empty token", token: "", wantErr: errors.ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "http://example.com/api/publish", http.NoBody)
			require.NoError(t, err)

			bearer := auth.BearerAuth{Token: tt.token}
			err = bearer.Apply(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, req.Header.Get("Authorization"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.Header.Get("Authorization"))
			assert.Equal(t, auth.BearerAuthType, bearer.Type())
		})
	}
}

func TestBearerAuthMasked(t *testing.T) {
	assert.Equal(t, "****1234", auth.BearerAuth{Token: "secret-1234"}.Masked())
	assert.Equal(t, "****", auth.BearerAuth{Token: "abc"}.Masked())
}
