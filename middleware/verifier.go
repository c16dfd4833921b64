package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	shieldcore "github.com/shieldhq/shieldcore"
)

// ErrTokenInvalid is returned for any token the [Verifier] rejects.
var ErrTokenInvalid = errors.New("invalid token")

// Claims is the token payload the host's auth provider issues. Permissions
// is the materialized grant list snapshotted at issuance — the guard never
// re-derives it from Role.
type Claims struct {
	Role        string   `json:"role"`
	Tier        string   `json:"tier,omitempty"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and materializes the principal
// embedded in their claims.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a [Verifier] over the shared HS256 secret.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("verifier secret required")
	}
	return &Verifier{secret: secret}, nil
}

// Principal validates the token and returns the principal carried in its
// claims. Any validation failure collapses to [ErrTokenInvalid].
func (v *Verifier) Principal(token string) (*shieldcore.Principal, error) {
	if v == nil {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &shieldcore.Principal{
		UserID:      claims.Subject,
		Role:        claims.Role,
		Tier:        claims.Tier,
		Permissions: claims.Permissions,
	}, nil
}
