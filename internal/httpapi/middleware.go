package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront/internal/domain"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderSessionID = "X-Session-ID"
	HeaderAdminID   = "X-Admin-ID"
)

type identityKey struct{}

type requestIdentity struct {
	userID    string
	sessionID string
}

// owner prefers the signed-in user over the anonymous session.
func (i requestIdentity) owner() domain.Owner {
	if i.userID != "" {
		return domain.UserOwner(i.userID)
	}
	return domain.SessionOwner(i.sessionID)
}

// identity reads the caller's user and session ids set by the upstream auth layer.
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestIdentity{
			userID:    r.Header.Get(HeaderUserID),
			sessionID: r.Header.Get(HeaderSessionID),
		}
		if id.userID == "" && id.sessionID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user or session identity")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// admin admits operators authenticated upstream. Order status, payment and refund
// operations are not available to shoppers.
func admin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := r.Header.Get(HeaderAdminID)
			if adminID == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing admin identity")
				return
			}

			logger.InfoContext(r.Context(), "admin request",
				"admin_id", adminID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r)
		})
	}
}

func identityFrom(ctx context.Context) requestIdentity {
	id, _ := ctx.Value(identityKey{}).(requestIdentity)
	return id
}

func requestLogger(logger *slog.Logger, observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			elapsed := time.Since(start)
			if observer != nil {
				observer.ObserveRequest(route, r.Method, status, elapsed)
			}

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"route", route,
				"status", status,
				"elapsed_ms", elapsed.Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
