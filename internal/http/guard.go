package http

import (
	"net/http"

	"teamhub/internal/guard"
	"teamhub/internal/service"
)

const codeSessionResolving = "SESSION_RESOLVING"

// guarded пропускает запрос к маршруту только при подходящем состоянии сессии.
func (h *Handler) guarded(access guard.Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := h.Sessions.Snapshot()
			loading := st.Loading()
			if h.opts.StrictGuard && st.Status == service.StatusOptimistic {
				loading = true
			}

			d := guard.Decide(st.IsAuthenticated, loading, access)
			switch d.Outcome {
			case guard.Wait:
				w.Header().Set("Retry-After", "1")
				h.writeError(w, "guard", &service.AppError{
					Code:    codeSessionResolving,
					Message: "session is being verified",
					Status:  http.StatusServiceUnavailable,
				})
			case guard.RedirectSignIn:
				w.Header().Set("Location", d.Location)
				h.writeError(w, "guard", service.ErrUnauthenticated("sign in required"))
			case guard.RedirectHome:
				w.Header().Set("Location", d.Location)
				writeJSON(w, http.StatusSeeOther, redirectResponse{Location: d.Location})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
