package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/excellense/api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the JWT payload: {userId, role} plus the registered time claims.
type sessionClaims struct {
	UserID string      `json:"userId"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens. It keeps no state,
// so an issued token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID carrying role.
func (s *TokenService) Issue(userID string, role domain.Role) (string, error) {
	now := s.now()
	claims := sessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the embedded identity.
// Every failure collapses into domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*domain.Identity, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
