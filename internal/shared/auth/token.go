package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// type checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Staff     bool   `json:"staff,omitempty"`
	TokenType string `json:"typ"`
}

// Identity is the verified subject of an access token.
type Identity struct {
	UserID string
	Email  string
	Staff  bool
}

// TokenManager issues and verifies HS256-signed session tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a TokenManager with the given secret and TTLs.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the lifetime of issued access tokens.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the lifetime of issued refresh tokens.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccessToken creates a short-lived access token for the identity.
func (m *TokenManager) IssueAccessToken(id Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Email:     id.Email,
		Staff:     id.Staff,
		TokenType: typeAccess,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken creates a long-lived refresh token and returns it with
// its JTI so the session row can be persisted.
func (m *TokenManager) IssueRefreshToken(userID string) (token string, jti string, err error) {
	now := time.Now()
	jti = uuid.NewString()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
		TokenType: typeRefresh,
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, jti, nil
}

// VerifyAccessToken validates an access token and returns its identity.
func (m *TokenManager) VerifyAccessToken(tokenString string) (Identity, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return Identity{}, err
	}
	if claims.TokenType != typeAccess || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Staff:  claims.Staff,
	}, nil
}

// VerifyRefreshToken validates a refresh token and returns the user ID and
// session JTI.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (userID string, jti string, err error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != typeRefresh || claims.Subject == "" || claims.ID == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.ID, nil
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
