// internal/common/auth/keycloak_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eb2niw-assessor/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newIntrospectionServer(t *testing.T, status int, body string) *KeycloakClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/niw/protocol/openid-connect/token/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "assessor", r.PostForm.Get("client_id"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewKeycloakClient(srv.URL+"/", "niw", "assessor", "secret")
}

// ==========================
// ResolveUserID
// ==========================

func TestKeycloakClient_ResolveUserID(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		header    string
		wantUser  string
		wantErr   bool
		wantRetry bool
	}{
		{
			name:     "active token",
			status:   http.StatusOK,
			body:     `{"active":true,"sub":"user-42","username":"ana"}`,
			header:   "Bearer tok",
			wantUser: "user-42",
		},
		{
			name:     "lower-case scheme",
			status:   http.StatusOK,
			body:     `{"active":true,"sub":"user-42"}`,
			header:   "bearer tok",
			wantUser: "user-42",
		},
		{
			name:    "inactive token",
			status:  http.StatusOK,
			body:    `{"active":false}`,
			header:  "Bearer tok",
			wantErr: true,
		},
		{
			name:    "basic scheme",
			status:  http.StatusOK,
			body:    `{}`,
			header:  "Basic dXNlcjpwYXNz",
			wantErr: true,
		},
		{
			name:      "identity provider down",
			status:    http.StatusServiceUnavailable,
			body:      `unavailable`,
			header:    "Bearer tok",
			wantErr:   true,
			wantRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newIntrospectionServer(t, tt.status, tt.body)

			got, err := client.ResolveUserID(context.Background(), tt.header)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUser, got)
				return
			}
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeUnauthorized, stdErr.Code)
			assert.Equal(t, tt.wantRetry, stdErr.Retryable)
		})
	}
}

func TestKeycloakClient_ResolveUserID_NoHeader(t *testing.T) {
	client := NewKeycloakClient("http://127.0.0.1:1", "niw", "assessor", "secret")

	got, err := client.ResolveUserID(context.Background(), "")

	assert.NoError(t, err)
	assert.Empty(t, got)
}
