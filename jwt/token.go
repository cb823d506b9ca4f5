package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"intake-backend/errs"
	"intake-backend/log"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer signs with key. A zero ttl issues tokens without an exp claim.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl}
}

func (i *Issuer) Issue(email string) (string, error) {
	now := time.Now()
	c := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
	if err != nil {
		log.Logger.Error("signing failure", zap.Error(err))
		return "", err
	}

	return ss, nil
}

// Verify wraps every failure in errs.ErrInvalidToken; callers are not meant
// to tell expiry from a bad signature.
func (i *Issuer) Verify(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		log.Logger.Debug("parse failure", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}

	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errs.ErrInvalidToken
	}
	if c.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", errs.ErrInvalidToken)
	}

	return c, nil
}
