package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"ms-attendance/internal/logger"
	"ms-attendance/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

type UserDBLayer interface {
	GetUserByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	UpdateUserName(ctx context.Context, id, name string) error
}

// Authenticator resolves bearer tokens to stored users. Identities are
// upserted on first sight with the client role; admins are promoted directly
// in the users table.
type Authenticator struct {
	Verifier *TokenVerifier
	Users    UserDBLayer
	// Cache is optional; nil disables session caching.
	Cache  *SessionCache
	Logger *logger.Logger
}

func NewAuthenticator(verifier *TokenVerifier, users UserDBLayer, cache *SessionCache, log *logger.Logger) *Authenticator {
	return &Authenticator{Verifier: verifier, Users: users, Cache: cache, Logger: log}
}

// Middleware authenticates the request and stores the resolved user in the
// request context.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
				return
			}

			user, err := a.resolveUser(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route group to users with the admin role. Must run
// after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if user.Role != models.RoleAdmin {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user from the request context, or nil.
func CurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func (a *Authenticator) resolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	if a.Cache != nil {
		cached, err := a.Cache.Get(ctx, tokenString)
		if err != nil && a.Logger != nil {
			a.Logger.Warn("AUTH", "Session cache lookup failed: "+err.Error())
		}
		if cached != nil {
			return cached, nil
		}
	}

	claims, err := a.Verifier.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.storeUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	if a.Cache != nil {
		if err := a.Cache.Set(ctx, tokenString, user); err != nil && a.Logger != nil {
			a.Logger.Warn("AUTH", "Session cache write failed: "+err.Error())
		}
	}
	return user, nil
}

// storeUser looks up the identity by its token identifier, creating it with
// the client role on first sight and refreshing the name when it changed.
func (a *Authenticator) storeUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := a.Users.GetUserByTokenIdentifier(ctx, claims.Subject)
	if err == nil {
		if claims.Name != "" && user.Name != claims.Name {
			if err := a.Users.UpdateUserName(ctx, user.ID, claims.Name); err != nil {
				return nil, fmt.Errorf("failed to update user name: %w", err)
			}
			user.Name = claims.Name
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	newUser := models.User{
		ID:              uuid.New().String(),
		Name:            claims.Name,
		Email:           claims.Email,
		TokenIdentifier: claims.Subject,
		Role:            models.RoleClient,
	}
	if err := a.Users.CreateUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &newUser, nil
}
