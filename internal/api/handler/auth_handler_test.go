package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/api/middleware"
	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
	"github.com/hcm-suite/hcm-system/internal/token"
)

type stubCredentialService struct {
	validateCred *domain.Credential
	validateErr  error
	createRes    domain.OperationResult
	updateRes    domain.OperationResult
	changeRes    domain.OperationResult
	deleteRes    domain.OperationResult

	createInput ports.CredentialInput
	updateEmail string
	updateInput ports.CredentialInput
	deleteEmail string
}

func (s *stubCredentialService) ValidateCredentials(_ context.Context, _, _ string) (*domain.Credential, error) {
	return s.validateCred, s.validateErr
}

func (s *stubCredentialService) CreateCredential(_ context.Context, input ports.CredentialInput) domain.OperationResult {
	s.createInput = input
	return s.createRes
}

func (s *stubCredentialService) UpdateCredential(_ context.Context, email string, input ports.CredentialInput) domain.OperationResult {
	s.updateEmail = email
	s.updateInput = input
	return s.updateRes
}

func (s *stubCredentialService) ChangePassword(_ context.Context, _, _, _ string) domain.OperationResult {
	return s.changeRes
}

func (s *stubCredentialService) DeleteCredential(_ context.Context, email string) domain.OperationResult {
	s.deleteEmail = email
	return s.deleteRes
}

type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (s *stubThrottle) TooManyAttempts(context.Context, string) (bool, error) {
	return s.blocked, nil
}

func (s *stubThrottle) RecordFailure(context.Context, string) error {
	s.failures++
	return nil
}

func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

func testIssuer() *token.Issuer {
	return token.NewIssuer("test-signing-key", "hcm-auth-api", []string{"hcm-people-api", "hcm-auth-api"}, time.Hour)
}

func newAuthContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope.Error
}

func TestLogin_Success(t *testing.T) {
	svc := &stubCredentialService{validateCred: &domain.Credential{
		ID:       "cred-1",
		Email:    "ann@x.com",
		FullName: "Ann Lee",
		Role:     domain.RoleManager,
	}}
	throttle := &stubThrottle{}
	h := NewAuthHandler(svc, testIssuer(), throttle)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"S3cret!pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	verifier := token.NewVerifier("test-signing-key", "hcm-auth-api", "hcm-people-api")
	ident, err := verifier.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if ident.Email != "ann@x.com" || ident.Role != domain.RoleManager || ident.SubjectID != "cred-1" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if throttle.resets != 1 {
		t.Fatalf("successful login must reset the throttle")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubCredentialService{validateErr: domain.ErrInvalidCredentials}
	throttle := &stubThrottle{}
	h := NewAuthHandler(svc, testIssuer(), throttle)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if throttle.failures != 1 {
		t.Fatalf("failed login must be recorded")
	}
}

func TestLogin_Throttled(t *testing.T) {
	svc := &stubCredentialService{}
	h := NewAuthHandler(svc, testIssuer(), &stubThrottle{blocked: true})

	c, rec := newAuthContext(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"S3cret!pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestLogin_NilThrottle(t *testing.T) {
	svc := &stubCredentialService{validateCred: &domain.Credential{
		ID: "cred-1", Email: "ann@x.com", FullName: "Ann Lee", Role: domain.RoleEmployee,
	}}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"S3cret!pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLogin_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubCredentialService{}, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_Created(t *testing.T) {
	svc := &stubCredentialService{createRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/register",
		`{"email":"ann@x.com","fullName":"Ann Lee","role":"Manager"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.createInput.Email != "ann@x.com" || svc.createInput.Role != domain.RoleManager {
		t.Fatalf("unexpected input: %+v", svc.createInput)
	}
	if svc.createInput.Password != "" {
		t.Fatalf("password must be empty when absent from the payload")
	}
}

func TestRegister_Conflict(t *testing.T) {
	svc := &stubCredentialService{createRes: domain.ConflictFailure("credential already exists")}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/register",
		`{"email":"ann@x.com","fullName":"Ann Lee","role":"Employee"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if decodeError(t, rec) != "credential already exists" {
		t.Fatalf("reason not propagated: %s", rec.Body.String())
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	h := NewAuthHandler(&stubCredentialService{}, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/register",
		`{"email":"ann@x.com","fullName":"Ann Lee","role":"Superuser"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := &stubCredentialService{updateRes: domain.NotFoundFailure("credential not found")}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPut, "/api/auth/users",
		`{"email":"ghost@x.com","fullName":"Ghost","role":"Employee"}`)
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	// Without a query key the body email selects the credential.
	if svc.updateEmail != "ghost@x.com" {
		t.Fatalf("unexpected lookup email: %q", svc.updateEmail)
	}
}

func TestUpdate_EmailChangeKeyedByQuery(t *testing.T) {
	svc := &stubCredentialService{updateRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPut, "/api/auth/users?email=ann%40x.com",
		`{"email":"ann.new@x.com","fullName":"Ann Lee","role":"Employee"}`)
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updateEmail != "ann@x.com" {
		t.Fatalf("lookup must use the query email, got %q", svc.updateEmail)
	}
	if svc.updateInput.Email != "ann.new@x.com" {
		t.Fatalf("new email lost: %+v", svc.updateInput)
	}
}

func TestUpdate_EmailChangeConflict(t *testing.T) {
	svc := &stubCredentialService{updateRes: domain.ConflictFailure("credential with email bob@x.com already exists")}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPut, "/api/auth/users?email=ann%40x.com",
		`{"email":"bob@x.com","fullName":"Ann Lee","role":"Employee"}`)
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestChangePassword_SelfAllowed(t *testing.T) {
	svc := &stubCredentialService{changeRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/change-password",
		`{"email":"ann@x.com","current_password":"S3cret!pass","new_password":"N3w!password"}`)
	c.Set(middleware.ContextKeyIdentity, token.Identity{Email: "Ann@X.com", Role: domain.RoleEmployee})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestChangePassword_OtherUserForbidden(t *testing.T) {
	svc := &stubCredentialService{changeRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/change-password",
		`{"email":"ann@x.com","current_password":"S3cret!pass","new_password":"N3w!password"}`)
	c.Set(middleware.ContextKeyIdentity, token.Identity{Email: "bob@x.com", Role: domain.RoleManager})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestChangePassword_AdminMayChangeAnyone(t *testing.T) {
	svc := &stubCredentialService{changeRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/change-password",
		`{"email":"ann@x.com","current_password":"S3cret!pass","new_password":"N3w!password"}`)
	c.Set(middleware.ContextKeyIdentity, token.Identity{Email: "admin@x.com", Role: domain.RoleHRAdmin})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	svc := &stubCredentialService{changeRes: domain.Failure("invalid email or password")}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodPost, "/api/auth/change-password",
		`{"email":"ann@x.com","current_password":"wrong!pass","new_password":"N3w!password"}`)
	c.Set(middleware.ContextKeyIdentity, token.Identity{Email: "ann@x.com", Role: domain.RoleEmployee})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDelete_Success(t *testing.T) {
	svc := &stubCredentialService{deleteRes: domain.Success()}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodDelete, "/api/auth/users?email=ann%40x.com", "")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.deleteEmail != "ann@x.com" {
		t.Fatalf("unexpected email: %q", svc.deleteEmail)
	}
}

func TestDelete_MissingEmail(t *testing.T) {
	h := NewAuthHandler(&stubCredentialService{}, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodDelete, "/api/auth/users", "")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := &stubCredentialService{deleteRes: domain.NotFoundFailure("credential not found")}
	h := NewAuthHandler(svc, testIssuer(), nil)

	c, rec := newAuthContext(http.MethodDelete, "/api/auth/users?email=ghost%40x.com", "")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
