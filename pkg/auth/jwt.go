package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
)

const Issuer = "proxyconsole"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token revoked")
)

type JWTServiceInterface interface {
	GenerateJWT(userID int64, role string, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	Revoke(tokenString string)
}

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// JWTService issues HS256 access tokens and remembers the ones revoked by
// logout until the process exits.
type JWTService struct {
	secret []byte

	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret:  []byte(secret),
		revoked: make(map[string]struct{}),
	}
}

func (s *JWTService) GenerateJWT(userID int64, role string, expirationTime time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 || claims.Issuer != Issuer {
		return nil, errors.New("invalid token claims")
	}

	s.mu.RLock()
	_, revoked := s.revoked[tokenString]
	s.mu.RUnlock()
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (s *JWTService) Revoke(tokenString string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenString] = struct{}{}
}

// ExpiresAt reads the expiry claim without checking the signature. The console
// only uses it for display; the backend stays the authority on validity.
func ExpiresAt(tokenString string) (time.Time, bool) {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claims); err != nil || claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0).UTC(), true
}
