package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Session is the authenticated operator's session, carried in the request context.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSession(username string, name string, now time.Time, lifespan time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Name:      name,
		IssuedAt:  now,
		ExpiresAt: now.Add(lifespan),
	}
}

// Expired reports now > expiresAt.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// TTL until expiry, zero once expired.
func (s Session) TTL(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

type JwtCustomClaim struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "DailyCash-Secret"
	}
	return secret
}

func JwtGenerate(session *Session) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		Username: session.Username,
		Name:     session.Name,
		StandardClaims: jwt.StandardClaims{
			Id:        session.ID,
			Subject:   session.Username,
			ExpiresAt: session.ExpiresAt.Unix(),
			IssuedAt:  session.IssuedAt.Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}

// SessionFromToken validates a signed token and rebuilds its session.
func SessionFromToken(token string) (*Session, error) {
	validate, err := JwtValidate(token)
	if err != nil || !validate.Valid {
		return nil, ErrorUnauthorized
	}
	claim, ok := validate.Claims.(*JwtCustomClaim)
	if !ok || claim.Username == "" || claim.Id == "" {
		return nil, errors.New("malformed session token")
	}
	return &Session{
		ID:        claim.Id,
		Username:  claim.Username,
		Name:      claim.Name,
		IssuedAt:  time.Unix(claim.IssuedAt, 0),
		ExpiresAt: time.Unix(claim.ExpiresAt, 0),
	}, nil
}
