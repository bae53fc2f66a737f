package services

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestCheckTokenExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque token", "abc", false},
		{"jwt without exp", sign(jwt.MapClaims{"sub": "1"}), false},
		{"jwt in the future", sign(jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), false},
		{"jwt in the past", sign(jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}), true},
		{"jwt expiring now", sign(jwt.MapClaims{"exp": now.Unix()}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTokenExpiry(tt.token, now)
			require.Equal(t, tt.want, errors.Is(err, common.ErrTokenExpired))
			if !tt.want {
				require.NoError(t, err)
			}
		})
	}
}
