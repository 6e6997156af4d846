package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// TokenLeeway is the clock skew tolerated on token expiration.
const TokenLeeway = 2 * time.Minute

// ErrInvalidToken is returned for malformed, badly signed or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenValidator resolves a bearer token into the principal it was issued to.
type TokenValidator interface {
	Validate(token string) (*domain.Principal, error)
}

// TokenClaims are the claims of the tokens accepted by the daemon. The
// subject holds the decimal user id.
type TokenClaims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

type jwtValidator struct {
	secret []byte
}

// NewJWTValidator returns a validator of HS256 tokens signed with secret.
func NewJWTValidator(secret string) (TokenValidator, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("missing auth secret")
	}
	return &jwtValidator{[]byte(secret)}, nil
}

func (v *jwtValidator) Validate(tokenString string) (*domain.Principal, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(TokenLeeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	return &domain.Principal{
		UserID:   userID,
		Username: claims.Username,
		IsAdmin:  claims.Admin,
	}, nil
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// authenticate resolves the bearer token, if any, into the request principal.
// Requests with a missing or invalid token go on anonymously and are rejected
// later by the methods that need a principal.
func authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" || validator == nil {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := validator.Validate(token)
			if err != nil {
				log.WithError(err).Debug("rpc: rejected bearer token")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
