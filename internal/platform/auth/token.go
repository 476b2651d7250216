package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by caller tokens. Subject holds the
// user id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenConfig configures signing and validation of caller tokens.
type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	TTL        time.Duration
}

// IssueToken signs an HS256 token for caller, valid from now for cfg.TTL.
func IssueToken(cfg TokenConfig, caller Caller, now time.Time) (string, error) {
	if len(cfg.SigningKey) == 0 {
		return "", errors.New("signing key is not configured")
	}
	if caller.UserID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		Role: caller.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenStr and returns the caller it names.
func ParseToken(cfg TokenConfig, tokenStr string) (Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return cfg.SigningKey, nil
	}, opts...)
	if err != nil {
		return Caller{}, err
	}
	if !token.Valid {
		return Caller{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Caller{}, fmt.Errorf("invalid subject: %w", err)
	}
	return Caller{UserID: id, Role: claims.Role}, nil
}
