package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/neurocarehub/webfront/internal/errors"
)

// IdentityClaims are the display-relevant claims of the access token.
// The token is decoded without signature verification: the frontend uses
// these for UI decisions only (greeting, role home, the advisory
// user_role cookie). Authorization is the backend's job.
type IdentityClaims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// ParseIdentity decodes the claims of a bearer access token. It fails
// only on tokens that are not structurally valid JWTs.
func ParseIdentity(token string) (IdentityClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return IdentityClaims{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}

	identity := IdentityClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		identity.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity, nil
}
