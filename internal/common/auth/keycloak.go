// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eb2niw-assessor/internal/common/errors"
	commonhttp "eb2niw-assessor/internal/common/http"
)

// KeycloakClient resolves bearer tokens to user ids through the realm's token
// introspection endpoint.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *commonhttp.Client
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Sub       string `json:"sub,omitempty"` // user id
	Iss       string `json:"iss,omitempty"`
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   commonhttp.NewClient(10 * time.Second),
	}
}

// ValidateToken checks if an access token is valid and active.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	status, body, err := k.httpClient.PostForm(ctx, introspectURL, data)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeUnauthorized,
			Message:   "Failed to reach identity provider",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}
	if status != http.StatusOK {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeUnauthorized,
			Message:   "Token introspection rejected",
			Details:   fmt.Sprintf("status %d: %s", status, string(body)),
			Retryable: isTransientHTTPError(status),
			Timestamp: time.Now().UTC(),
		}
	}

	var tokenInfo TokenInfo
	if err := json.Unmarshal(body, &tokenInfo); err != nil {
		return nil, errors.NewUnauthorizedError("decode introspection response: " + err.Error())
	}
	if !tokenInfo.Active {
		return nil, errors.NewUnauthorizedError("token is expired, revoked or malformed")
	}
	return &tokenInfo, nil
}

// ResolveUserID returns the subject of the bearer token in an Authorization header value.
// An empty header resolves to an empty id without contacting Keycloak.
func (k *KeycloakClient) ResolveUserID(ctx context.Context, authorization string) (string, error) {
	if authorization == "" {
		return "", nil
	}
	token, ok := bearerToken(authorization)
	if !ok {
		return "", errors.NewUnauthorizedError("authorization header must use the Bearer scheme")
	}
	info, err := k.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}
	return info.Sub, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
