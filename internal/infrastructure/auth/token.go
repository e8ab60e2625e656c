package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("auth: invalid token")

type Claims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

// JWTIssuer signs and verifies HS256 tokens carrying the user id.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration, now func() time.Time) *JWTIssuer {
	if now == nil {
		now = time.Now
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

func (j *JWTIssuer) Issue(userID string) (string, error) {
	now := j.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(j.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	return t.SignedString(j.secret)
}

// Verify returns the user id carried by a valid, unexpired token.
func (j *JWTIssuer) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
