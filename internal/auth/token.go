package auth

import (
	"time"

	"go-cinema-ticketing/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry. Claims carry the
// user id (sub), role and email so the middleware can rebuild the
// principal without a database round trip.
type AccessToken struct {
	Token string
	Exp   time.Time
}

func NewAccessToken(secret string, user *model.User, ttl time.Duration) (AccessToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  string(user.Role),
		"email": user.Email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{Token: signed, Exp: exp}, nil
}
