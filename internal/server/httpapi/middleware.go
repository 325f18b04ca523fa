package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/auth"
)

type ctxKey string

const (
	claimsKey      ctxKey = "claims"
	requestUserKey ctxKey = "request_user"
)

// requestUser is placed in the context by accessLog and filled by
// authenticate, which only sees a derived context.
type requestUser struct {
	id string
}

// claimsFrom returns the claims stored by authenticate. Handlers mounted
// behind authenticate can rely on it being non-nil.
func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func userIDFrom(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.UserID
	}
	return ""
}

// authenticate validates the bearer access token and stores its claims in the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			s.writeError(w, r, fmt.Errorf("%w: missing token", common.ErrorUnauthorized))
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token), s.jwtSecret)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				err = common.ErrInvalidToken
			}
			s.writeError(w, r, err)
			return
		}

		if ru, ok := r.Context().Value(requestUserKey).(*requestUser); ok {
			ru.id = claims.UserID
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole lets the request through only if the token carries one of roles.
func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := claimsFrom(r.Context())
			if c == nil || !c.HasAnyRole(roles...) {
				s.writeError(w, r, fmt.Errorf("%w: requires one of roles %v", common.ErrorForbidden, roles))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs one line per request once the response is written.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		ru := &requestUser{}
		r = r.WithContext(context.WithValue(r.Context(), requestUserKey, ru))

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"user_id", ru.id,
		)
	})
}
