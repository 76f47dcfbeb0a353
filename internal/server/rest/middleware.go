package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/models"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userKey ctxKey = "user"

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgTokenExpired  = "Token expired"
	msgInvalidToken  = "Invalid token"
	msgUserNotFound  = "User not found"
)

const bearerChallenge = `Bearer realm="api"`

// unauthorized answers 401 with a bearer challenge.
func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", bearerChallenge)
	writeDetail(w, http.StatusUnauthorized, detail)
}

// requireAuth resolves "Authorization: Bearer <jwt>" to a user and stores it
// in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(w, msgNoCredentials)
			return
		}

		user, err := s.users.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				unauthorized(w, msgTokenExpired)
			case errors.Is(err, common.ErrInvalidToken):
				unauthorized(w, msgInvalidToken)
			case errors.Is(err, common.ErrorNotFound):
				unauthorized(w, msgUserNotFound)
			default:
				s.writeServiceError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// accessLog writes one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
