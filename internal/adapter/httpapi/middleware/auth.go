package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey struct{}

var actorKey contextKey

// Auth verifies bearer tokens issued by the auth service and resolves them to
// accounts. Tokens are HS256 with the user id in the "user_id" (or "sub")
// claim; the account itself is always read from storage so role and status
// changes take effect immediately.
type Auth struct {
	secret []byte
	users  domain.UserRepository
	logger *logger.Logger
}

func NewAuth(secret string, users domain.UserRepository, log *logger.Logger) *Auth {
	return &Auth{
		secret: []byte(secret),
		users:  users,
		logger: log.Named("Auth"),
	}
}

// Require rejects requests without a valid token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := a.resolve(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

// Optional resolves a token when present and continues anonymously when the
// Authorization header is absent. A present but invalid token is still
// rejected.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := a.resolve(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

func (a *Auth) resolve(r *http.Request) (*domain.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: token carries no user id", domain.ErrUnauthenticated)
	}

	actor, err := a.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown account", domain.ErrUnauthenticated)
		}
		a.logger.Error("account lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if actor.Status == domain.UserSuspended {
		return nil, fmt.Errorf("%w: account suspended", domain.ErrForbidden)
	}
	return actor, nil
}

func withActor(ctx context.Context, actor *domain.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated account, or nil for anonymous requests.
func ActorFrom(ctx context.Context) *domain.User {
	actor, _ := ctx.Value(actorKey).(*domain.User)
	return actor
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, domain.ErrForbidden) {
		status = http.StatusForbidden
	} else if !errors.Is(err, domain.ErrUnauthenticated) {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"detail\":%q}\n", err.Error())
}
