package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "__valkyrie_session"

// UserIDKey is the session key that holds the authenticated user's ID.
const UserIDKey = "userId"

// FlashErrorKey is the flash key used to pass error text across a redirect.
const FlashErrorKey = "error"

const contextKey = "session"

// Session is a per-request view of the server-side session payload. Changes
// are not persisted until the owning Manager's Save is called, mirroring an
// explicit commit after mutation.
type Session struct {
	ID   string
	data *Data
}

// New returns an empty anonymous session.
func New() *Session {
	return &Session{data: NewData()}
}

// Has reports whether a value is set for key.
func (s *Session) Has(key string) bool {
	_, ok := s.data.Values[key]
	return ok
}

// Get returns the value for key, or the empty string.
func (s *Session) Get(key string) string {
	return s.data.Values[key]
}

// Set stores a value under key.
func (s *Session) Set(key, value string) {
	s.data.Values[key] = value
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	delete(s.data.Values, key)
}

// Flash stores a value readable exactly once via Flashes.
func (s *Session) Flash(key, value string) {
	s.data.Flash[key] = value
}

// Flashes consumes and returns the flash value for key. The consumption only
// sticks once the session is saved.
func (s *Session) Flashes(key string) (string, bool) {
	value, ok := s.data.Flash[key]
	if ok {
		delete(s.data.Flash, key)
	}
	return value, ok
}

// UserID returns the authenticated user's ID, if any.
func (s *Session) UserID() (uuid.UUID, bool) {
	raw, ok := s.data.Values[UserIDKey]
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Manager loads, commits, and destroys cookie-referenced sessions.
type Manager struct {
	signer *TokenSigner
	store  Store
	maxAge time.Duration
	secure bool
}

// NewManager creates a session manager. maxAge bounds both the cookie and the
// server-side payload TTL.
func NewManager(secret string, store Store, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		signer: NewTokenSigner(secret, maxAge),
		store:  store,
		maxAge: maxAge,
		secure: secure,
	}
}

// Load resolves the session referenced by the request cookie. A missing
// cookie, a bad signature, or an expired payload all yield a fresh anonymous
// session rather than an error.
func (m *Manager) Load(c echo.Context) *Session {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}

	sessionID, err := m.signer.Parse(cookie.Value)
	if err != nil {
		return New()
	}

	data, err := m.store.Get(c.Request().Context(), sessionID)
	if err != nil {
		return New()
	}
	return &Session{ID: sessionID, data: data}
}

// Save commits the session payload and (re)issues the cookie.
func (m *Manager) Save(c echo.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if err := m.store.Save(c.Request().Context(), s.ID, s.data, m.maxAge); err != nil {
		return err
	}

	value, err := m.signer.Sign(s.ID)
	if err != nil {
		return err
	}
	c.SetCookie(m.cookie(value, int(m.maxAge.Seconds())))
	return nil
}

// Destroy deletes the server-side payload and expires the cookie.
func (m *Manager) Destroy(c echo.Context, s *Session) error {
	if s.ID != "" {
		if err := m.store.Delete(c.Request().Context(), s.ID); err != nil {
			return err
		}
	}
	c.SetCookie(m.cookie("", -1))
	return nil
}

// Middleware attaches the loaded session (possibly anonymous) to the request
// context. It never rejects a request; route gating happens separately.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			Attach(c, m.Load(c))
			return next(c)
		}
	}
}

// Attach binds a session to the request context.
func Attach(c echo.Context, s *Session) {
	c.Set(contextKey, s)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromContext returns the session attached by Middleware, or nil.
func FromContext(c echo.Context) *Session {
	s, _ := c.Get(contextKey).(*Session)
	return s
}

// CurrentUserID returns the authenticated user's ID from the request context.
func CurrentUserID(c echo.Context) (uuid.UUID, bool) {
	s := FromContext(c)
	if s == nil {
		return uuid.Nil, false
	}
	return s.UserID()
}
