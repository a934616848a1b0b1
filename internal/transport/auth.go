package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenAuth turns an optional HS256 token into a connection id. With no
// secret every connection is anonymous.
type TokenAuth struct {
	secret []byte
}

// NewTokenAuth creates an authenticator. An empty secret disables tokens.
func NewTokenAuth(secret string) *TokenAuth {
	return &TokenAuth{secret: []byte(secret)}
}

// Identify returns the connection id for r: the token subject when a valid
// token is presented, a fresh UUID when none is.
func (a *TokenAuth) Identify(r *http.Request) (string, error) {
	tok := tokenFromRequest(r)
	if len(a.secret) == 0 || tok == "" {
		return uuid.NewString(), nil
	}
	return a.Validate(tok)
}

// Validate checks a token and returns its subject.
func (a *TokenAuth) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", oops.Code("UNAUTHORIZED").Wrap(err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", oops.Code("UNAUTHORIZED").Errorf("token has no subject")
	}
	return sub, nil
}

// Issue signs a token for id valid for ttl.
func (a *TokenAuth) Issue(id string, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", oops.Code("UNAUTHORIZED").Errorf("no signing secret configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func tokenFromRequest(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
