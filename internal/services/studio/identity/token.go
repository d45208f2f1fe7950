// Package identity verifies session tokens issued by the hosted auth
// provider and exposes the current principal to handlers.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID    string
	Name      string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	SessionID string `json:"sid"`
}

// Verifier checks HS256 session tokens.
type Verifier struct {
	Issuer string
	Secret []byte
	Now    func() time.Time
}

// NewVerifier returns a verifier for tokens signed with secret by issuer.
func NewVerifier(issuer string, secret []byte) (Verifier, error) {
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return Verifier{}, fmt.Errorf("session issuer is required")
	}
	if len(secret) < 32 {
		return Verifier{}, fmt.Errorf("session secret must be at least 32 bytes")
	}
	return Verifier{Issuer: issuer, Secret: secret, Now: time.Now}, nil
}

// Verify validates token and returns its principal.
func (v Verifier) Verify(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthorized, "session token is required")
	}
	if v.Issuer == "" || len(v.Secret) == 0 {
		return Principal{}, errors.New("session verifier is not configured")
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return Principal{}, mapJWTError(err)
	}
	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthorized, "session subject is required")
	}
	return Principal{
		UserID:    subject,
		Name:      strings.TrimSpace(parsed.Name),
		Email:     strings.TrimSpace(parsed.Email),
		SessionID: parsed.SessionID,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeUnauthorized, "session token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeUnauthorized, "session token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.Wrap(apperrors.CodeUnauthorized, "session token issuer mismatch", err)
	default:
		return apperrors.Wrap(apperrors.CodeUnauthorized, "session token is invalid", err)
	}
}

// Issue signs a session token for principal valid for ttl. The hosted
// provider mints production tokens; Issue serves development and tests.
func (v Verifier) Issue(principal Principal, ttl time.Duration) (string, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return "", fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	issuedAt := now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.Issuer,
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Name:      principal.Name,
		Email:     principal.Email,
		SessionID: principal.SessionID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
