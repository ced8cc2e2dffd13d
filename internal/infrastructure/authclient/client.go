// Package authclient is the people service's client-side view of the
// auth service: it translates person mutations into credential wire
// calls and every failure (non-2xx status, transport error, malformed
// body) into a plain failure OperationResult. The orchestrator never
// sees an error value or a panic from this boundary.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
	"github.com/hcm-suite/hcm-system/internal/token"
)

const (
	registerPath = "/api/auth/register"
	usersPath    = "/api/auth/users"
)

// Client implements ports.CredentialClient over HTTP. Calls are
// synchronous with no retries; the caller's bearer token is forwarded
// when present in the context, so the companion call runs under the
// original caller's authority.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// credentialBody is the wire shape for create and update.
type credentialBody struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// CreateUser asks the auth service to register a credential.
func (c *Client) CreateUser(ctx context.Context, payload ports.CredentialPayload) domain.OperationResult {
	return c.send(ctx, http.MethodPost, c.baseURL+registerPath, &credentialBody{
		Email:    payload.Email,
		FullName: payload.FullName,
		Role:     payload.Role.String(),
	})
}

// UpdateUser asks the auth service to update the credential currently
// stored under email. The body carries the new values; when its email
// differs the credential is re-keyed.
func (c *Client) UpdateUser(ctx context.Context, email string, payload ports.CredentialPayload) domain.OperationResult {
	return c.send(ctx, http.MethodPut, c.baseURL+usersPath+"?email="+url.QueryEscape(email), &credentialBody{
		Email:    payload.Email,
		FullName: payload.FullName,
		Role:     payload.Role.String(),
	})
}

// DeleteUser asks the auth service to remove the credential for email,
// passed as a query parameter.
func (c *Client) DeleteUser(ctx context.Context, email string) domain.OperationResult {
	return c.send(ctx, http.MethodDelete, c.baseURL+usersPath+"?email="+url.QueryEscape(email), nil)
}

// send performs one request and folds every failure mode into a failure
// OperationResult.
func (c *Client) send(ctx context.Context, method, rawURL string, body *credentialBody) domain.OperationResult {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.Failure(fmt.Sprintf("auth service request encoding failed: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return domain.Failure(fmt.Sprintf("auth service request invalid: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer, ok := token.BearerFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", rawURL).Msg("auth service unreachable")
		return domain.Failure(fmt.Sprintf("auth service unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := c.readErrorReason(resp)
		c.logger.Warn().Int("status", resp.StatusCode).Str("method", method).Str("url", rawURL).Str("reason", reason).Msg("auth service rejected companion call")
		return domain.Failure(reason)
	}

	return domain.Success()
}

// readErrorReason extracts the auth service's error envelope, falling
// back to the HTTP status when the body is missing or malformed.
func (c *Client) readErrorReason(resp *http.Response) string {
	fallback := "auth service returned " + resp.Status

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fallback
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error == "" {
		return fallback
	}
	return envelope.Error
}
