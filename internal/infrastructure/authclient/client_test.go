package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
	"github.com/hcm-suite/hcm-system/internal/token"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   credentialBody
}

func newRecordingServer(t *testing.T, status int, respBody string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func testPayload() ports.CredentialPayload {
	return ports.CredentialPayload{
		Email:    "ann@x.com",
		FullName: "Ann Lee",
		Role:     domain.RoleManager,
	}
}

func TestCreateUser_Success(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, "")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	res := client.CreateUser(context.Background(), testPayload())
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if rec.method != http.MethodPost || rec.path != "/api/auth/register" {
		t.Fatalf("unexpected request: %s %s", rec.method, rec.path)
	}
	if rec.body.Email != "ann@x.com" || rec.body.FullName != "Ann Lee" || rec.body.Role != "Manager" {
		t.Fatalf("unexpected body: %+v", rec.body)
	}
}

func TestUpdateUser_KeyedByCurrentEmail(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusNoContent, "")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	// The query parameter carries the credential's current email, the
	// body carries the new values, so an email change is expressible.
	res := client.UpdateUser(context.Background(), "old@x.com", testPayload())
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if rec.method != http.MethodPut || rec.path != "/api/auth/users" {
		t.Fatalf("unexpected request: %s %s", rec.method, rec.path)
	}
	if rec.query != "email=old%40x.com" {
		t.Fatalf("current email not in query: %q", rec.query)
	}
	if rec.body.Email != "ann@x.com" {
		t.Fatalf("new email not in body: %+v", rec.body)
	}
}

func TestDeleteUser_EmailInQuery(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusNoContent, "")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	res := client.DeleteUser(context.Background(), "ann+hr@x.com")
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/auth/users" {
		t.Fatalf("unexpected request: %s %s", rec.method, rec.path)
	}
	if rec.query != "email=ann%2Bhr%40x.com" {
		t.Fatalf("email not escaped in query: %q", rec.query)
	}
}

func TestSend_ForwardsBearer(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, "")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	ctx := token.WithBearer(context.Background(), "caller-token")
	if res := client.CreateUser(ctx, testPayload()); !res.OK {
		t.Fatalf("expected success, got %q", res.Reason)
	}
	if rec.auth != "Bearer caller-token" {
		t.Fatalf("bearer not forwarded: %q", rec.auth)
	}
}

func TestSend_NoBearerWithoutContextValue(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, "")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	if res := client.CreateUser(context.Background(), testPayload()); !res.OK {
		t.Fatalf("expected success")
	}
	if rec.auth != "" {
		t.Fatalf("unexpected authorization header: %q", rec.auth)
	}
}

func TestSend_ErrorEnvelopeReason(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusConflict, `{"error":"user already exists"}`)
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	res := client.CreateUser(context.Background(), testPayload())
	if res.OK {
		t.Fatalf("expected failure")
	}
	if res.Reason != "user already exists" {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
}

func TestSend_MalformedErrorBodyFallsBackToStatus(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusInternalServerError, "not json")
	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())

	res := client.CreateUser(context.Background(), testPayload())
	if res.OK {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(res.Reason, "500") {
		t.Fatalf("expected status fallback reason, got %q", res.Reason)
	}
}

func TestSend_Unreachable(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, "")
	srv.Close()
	client := NewClient(srv.URL, nil, zerolog.Nop())

	res := client.CreateUser(context.Background(), testPayload())
	if res.OK {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(res.Reason, "unreachable") {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
}
