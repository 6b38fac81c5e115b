package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeAccess = "access"
	purposeReset  = "reset"

	resetTokenTTL = time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the stateless JWTs: short-lived access
// tokens and password-reset tokens. Both carry only the user id as subject.
type TokenIssuer struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenIssuer(secret, algorithm string, accessTTL time.Duration) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenIssuer{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

func (t *TokenIssuer) AccessTTL() time.Duration {
	return t.accessTTL
}

func (t *TokenIssuer) IssueAccess(userID uint) (string, error) {
	return t.sign(userID, purposeAccess, t.accessTTL)
}

func (t *TokenIssuer) ParseAccess(token string) (uint, error) {
	return t.parse(token, purposeAccess)
}

func (t *TokenIssuer) IssueReset(userID uint) (string, error) {
	return t.sign(userID, purposeReset, resetTokenTTL)
}

func (t *TokenIssuer) ParseReset(token string) (uint, error) {
	return t.parse(token, purposeReset)
}

func (t *TokenIssuer) sign(userID uint, purpose string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
}

func (t *TokenIssuer) parse(raw, purpose string) (uint, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != t.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}
