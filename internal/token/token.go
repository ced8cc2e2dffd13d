// Package token issues and verifies the signed identity assertions that
// cross the service boundary. Issuance and verification are split into
// separate types: the auth service holds an Issuer, both services hold a
// Verifier. Each call is a pure function of the key material and the
// clock; nothing is persisted and there is no revocation list.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

const defaultTTL = time.Hour

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongIssuer   = errors.New("unexpected token issuer")
	ErrWrongAudience = errors.New("token audience not accepted")
)

// Identity is a resolved, verified actor: the output of credential
// validation on the way in, the output of token verification on the way
// out. It never carries raw credentials.
type Identity struct {
	SubjectID string
	Name      string
	Email     string
	Role      domain.Role
}

// Claims is the JWT claim set carried by an identity assertion.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs identity assertions.
type Issuer struct {
	key      []byte
	issuer   string
	audience []string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer builds an Issuer. The caller is responsible for refusing to
// start with an empty key; Issue assumes the key is present.
func NewIssuer(key, issuer string, audience []string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs an assertion for ident: subject id, display name, email,
// role, a fresh token id, issuer, audience, issued-at and expiry.
func (i *Issuer) Issue(ident Identity) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		Name:  ident.Name,
		Email: ident.Email,
		Role:  ident.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.SubjectID,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings(i.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.key)
}

// Verifier validates inbound identity assertions.
type Verifier struct {
	key      []byte
	issuer   string
	accepted map[string]struct{}
	now      func() time.Time
}

// NewVerifier builds a Verifier that accepts tokens signed with key,
// issued by issuer, whose audience list intersects audiences. The issuer
// name is always part of the accepted set, so a token the auth service
// issued for itself verifies at the auth service too.
func NewVerifier(key, issuer string, audiences ...string) *Verifier {
	accepted := make(map[string]struct{}, len(audiences)+1)
	accepted[issuer] = struct{}{}
	for _, a := range audiences {
		accepted[a] = struct{}{}
	}
	return &Verifier{
		key:      []byte(key),
		issuer:   issuer,
		accepted: accepted,
		now:      time.Now,
	}
}

// Verify checks signature, issuer, expiry and audience, returning the
// asserted Identity. Any rejection comes back as an error; callers treat
// all of them as not-authenticated.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return v.key, nil
		},
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.Issuer != v.issuer {
		return Identity{}, ErrWrongIssuer
	}

	// Inclusion test, not equality: the token is accepted when any of
	// its audiences is known to this verifier.
	if !v.audienceAccepted(claims.Audience) {
		return Identity{}, ErrWrongAudience
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		SubjectID: claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      role,
	}, nil
}

func (v *Verifier) audienceAccepted(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if _, ok := v.accepted[a]; ok {
			return true
		}
	}
	return false
}
