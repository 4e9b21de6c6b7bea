package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken covers bad signatures, wrong algorithms, expiry and
	// malformed claims.
	ErrInvalidToken = errors.New("invalid token")
	errEmptySecret  = errors.New("token secret is empty; provide ≥32 random chars")
)

// Claims is the token payload: {id, role, exp, iat}.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens and provides the
// middleware that guards API routes.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewTokenManager builds a manager. A zero ttl means DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now, log: logger}, nil
}

// TTL returns the token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for userID with role.
func (m *TokenManager) Issue(userID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies signature and expiry and returns the claims.
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
