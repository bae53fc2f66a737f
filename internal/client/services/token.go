package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// checkTokenExpiry returns common.ErrTokenExpired when token is a JWT whose
// exp claim is at or before now. The signature is not checked; only the
// backend can do that. Opaque (non-JWT) tokens and JWTs without exp pass.
func checkTokenExpiry(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(now) {
		return fmt.Errorf("%w at %s", common.ErrTokenExpired, exp.Time.UTC().Format(time.RFC3339))
	}
	return nil
}
