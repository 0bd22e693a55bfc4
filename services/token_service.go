package services

import (
	"gin-itemtracker/constants"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	Subject string
	Role    string
}

type ITokenService interface {
	Issue(claims TokenClaims) (string, error)
	Verify(tokenString string) (*TokenClaims, error)
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// トークンに含めてよいクレームはこの3つだけ
var allowedClaims = map[string]struct{}{
	"sub":  {},
	"role": {},
	"exp":  {},
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock はテスト用に時刻の取得元を差し替える
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Issue(claims TokenClaims) (string, error) {
	if claims.Subject == "" || !isKnownRole(claims.Role) {
		return "", ErrInvalidToken
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  claims.Subject,
		"role": claims.Role,
		"exp":  s.now().Add(s.ttl).Unix(),
	})

	return token.SignedString(s.secret)
}

func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	for key := range mapClaims {
		if _, ok := allowedClaims[key]; !ok {
			return nil, ErrInvalidToken
		}
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}
	role, ok := mapClaims["role"].(string)
	if !ok || !isKnownRole(role) {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{Subject: sub, Role: role}, nil
}

func isKnownRole(role string) bool {
	return role == constants.RoleAdmin || role == constants.RoleUser
}
