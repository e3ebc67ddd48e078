package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	pkgauth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// SessionTokenHeader carries the signed session token in both directions.
const SessionTokenHeader = "X-Session-Token"

type sessionStore interface {
	New() *session.Session
	Load(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
}

// Session resolves the visitor session from the token header or cookie and
// attaches it to the request context. Unknown or invalid tokens start a new
// anonymous session. Changes are persisted right before the response header
// is written, and a fresh token is returned whenever the identifier changed.
func Session(cfg config.SessionConfig, store sessionStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := resolveSession(ctx, cfg, store, logg, r)

			ctx = WithSession(ctx, sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID())
			}
			if userID, ok := sess.UserID(); ok {
				ctx = WithUserID(ctx, userID.String())
				if logg != nil {
					ctx = logg.WithUserID(ctx, userID.String())
				}
			}

			sw := &sessionWriter{
				ResponseWriter: w,
				commit: func() {
					commitSession(ctx, cfg, store, logg, w, r.URL.Path, sess)
				},
			}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.flush()
		})
	}
}

func resolveSession(ctx context.Context, cfg config.SessionConfig, store sessionStore, logg *logger.Logger, r *http.Request) *session.Session {
	token := sessionToken(cfg, r)
	if token == "" {
		return store.New()
	}
	claims, err := pkgauth.ParseSessionToken(cfg, token)
	if err != nil {
		if logg != nil {
			logg.Debug(logg.WithField(ctx, "error", err.Error()), "session.token_rejected")
		}
		return store.New()
	}
	sess, err := store.Load(ctx, claims.ID)
	if err != nil {
		if logg != nil && !errors.Is(err, session.ErrSessionNotFound) {
			logg.Error(ctx, "session.load_failed", err)
		}
		return store.New()
	}
	return sess
}

func sessionToken(cfg config.SessionConfig, r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(SessionTokenHeader)); token != "" {
		return token
	}
	if cfg.CookieName == "" {
		return ""
	}
	if cookie, err := r.Cookie(cfg.CookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func commitSession(ctx context.Context, cfg config.SessionConfig, store sessionStore, logg *logger.Logger, w http.ResponseWriter, path string, sess *session.Session) {
	if !sess.Modified() {
		return
	}
	if err := store.Save(ctx, sess); err != nil {
		// Work already committed elsewhere (an order, a cleared cart) is not
		// reflected in the stored session.
		if logg != nil {
			logg.Error(logg.WithField(ctx, "path", path), "session.save_failed", err)
		}
		return
	}
	if !sess.NeedsToken() {
		return
	}

	now := time.Now()
	token, err := pkgauth.MintSessionToken(cfg, now, sess.ID())
	if err != nil {
		if logg != nil {
			logg.Error(ctx, "session.token_mint_failed", err)
		}
		return
	}
	w.Header().Set(SessionTokenHeader, token)
	if cfg.CookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  now.Add(cfg.TTL()),
			MaxAge:   int(cfg.TTL().Seconds()),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// sessionWriter commits the session once, before the first byte of the
// response goes out.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}
