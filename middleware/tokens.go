package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

const issuer = "comodin"

// Claims identify the run a token was issued for
type Claims struct {
	RunID string `json:"run_id"`
	jwt.RegisteredClaims
}

// TokenService issues and checks run tokens, signed with HS256
type TokenService struct {
	secretKey []byte
	expire    time.Duration
}

func NewTokenService(secretKey string, expire time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secretKey), expire: expire}
}

func (s *TokenService) Issue(runID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expire)
	claims := &Claims{
		RunID: runID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   runID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.RunID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
