package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret          string
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
	Issuer          string
}

// JWTManager issues and validates the bearer token pair.
type JWTManager struct {
	cfg Config
}

func NewJWTManager(cfg Config) *JWTManager {
	if cfg.AccessLifetime == 0 {
		cfg.AccessLifetime = 15 * time.Minute
	}
	if cfg.RefreshLifetime == 0 {
		cfg.RefreshLifetime = 7 * 24 * time.Hour
	}
	return &JWTManager{cfg: cfg}
}

func (m *JWTManager) GenerateAccessToken(userID int64, role string) (string, error) {
	return m.generate(userID, role, tokenTypeAccess, m.cfg.AccessLifetime)
}

func (m *JWTManager) GenerateRefreshToken(userID int64, role string) (string, error) {
	return m.generate(userID, role, tokenTypeRefresh, m.cfg.RefreshLifetime)
}

func (m *JWTManager) RefreshLifetime() time.Duration {
	return m.cfg.RefreshLifetime
}

func (m *JWTManager) generate(userID int64, role, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

func (m *JWTManager) validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
