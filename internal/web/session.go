package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/dataviewer/internal/core"
	"github.com/JonMunkholm/dataviewer/internal/logging"
)

type ctxKey struct{}

const sessionIDValue = "sid"

// sessionMiddleware resolves the caller's core.Session from the signed
// cookie, creating one when the cookie is missing, tampered with, or points
// at an expired session. The cookie is re-signed on every request so its
// lifetime tracks the session's idle timeout rather than its creation.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get returns a fresh cookie session alongside a decode error, so the
		// error only means the old cookie is discarded.
		cookie, err := s.cookies.Get(r, s.cfg.Session.CookieName)
		if err != nil {
			logging.FromContext(r.Context()).Debug("session cookie rejected", "error", err)
		}

		id, _ := cookie.Values[sessionIDValue].(string)
		sess := s.sessions.GetOrCreate(id)
		cookie.Values[sessionIDValue] = sess.ID
		if err := cookie.Save(r, w); err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, sess)
		ctx = logging.WithSessionID(ctx, sess.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(ctxKey{}).(*core.Session)
	return sess
}
