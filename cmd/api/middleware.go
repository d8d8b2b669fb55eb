package main

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// sessionHeader is the legacy header some clients still send instead of an
// Authorization bearer token.
const sessionHeader = "X-Session-Id"

var workspacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

type workspaceKey struct{}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

func (app *application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			msg := "%s %s status=%d bytes=%d duration=%s requestID=%s"
			args := []interface{}{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start), requestID(r)}
			if status >= http.StatusInternalServerError {
				app.logger.Warn("HTTP", msg, args...)
			} else {
				app.logger.Info("HTTP", msg, args...)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(sessionHeader))
}

func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := app.identity.Lookup(r.Context(), token)
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) workspaceCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := chi.URLParam(r, "workspace")
		if !workspacePattern.MatchString(ws) {
			app.badRequest(w, "invalid workspace")
			return
		}
		ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func workspaceFrom(r *http.Request) string {
	ws, _ := r.Context().Value(workspaceKey{}).(string)
	return ws
}
