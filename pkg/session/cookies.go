package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/helpdesk/pkg/config"
)

const (
	// SessionCookieName is the cookie holding the session token.
	SessionCookieName = "sessionId"

	// TranscriptCookiePrefix prefixes the transcript cookie name; the token follows.
	TranscriptCookiePrefix = "conversation-"
)

// Manager reads and writes session cookies with the configured attributes.
type Manager struct {
	path          string
	secure        bool
	sameSite      http.SameSite
	transcriptTTL time.Duration
}

// NewManager creates a Manager from the session configuration.
func NewManager(cfg config.SessionConfig) *Manager {
	path := cfg.CookiePath
	if path == "" {
		path = config.DefaultCookiePath
	}
	ttl := cfg.TranscriptTTL
	if ttl <= 0 {
		ttl = config.DefaultTranscriptTTL
	}

	return &Manager{
		path:          path,
		secure:        cfg.Secure,
		sameSite:      parseSameSite(cfg.SameSite),
		transcriptTTL: ttl,
	}
}

// NewToken mints a session token.
func NewToken() string {
	return uuid.NewString()
}

// maxTokenLength bounds an inbound session token.
const maxTokenLength = 128

// ValidToken reports whether token can name a transcript cookie. Minted
// tokens are UUIDs; any short run of URL-safe characters is accepted.
func ValidToken(token string) bool {
	if token == "" || len(token) > maxTokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == '~':
		default:
			return false
		}
	}
	return true
}

// TranscriptCookieName returns the name of the transcript cookie for token.
func TranscriptCookieName(token string) string {
	return TranscriptCookiePrefix + token
}

// Token returns the session token carried by the request, if it is well formed.
func (m *Manager) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || !ValidToken(c.Value) {
		return "", false
	}
	return c.Value, true
}

// Resolve returns the request's session token, minting a new one when the
// cookie is absent or malformed.
func (m *Manager) Resolve(r *http.Request) (token string, minted bool) {
	if token, ok := m.Token(r); ok {
		return token, false
	}
	return NewToken(), true
}

// Transcript returns the raw transcript cookie value for token, or "" when
// the request carries none.
func (m *Manager) Transcript(r *http.Request, token string) string {
	c, err := r.Cookie(TranscriptCookieName(token))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// Set writes the session token cookie and the transcript cookie.
func (m *Manager) Set(w http.ResponseWriter, token, encodedTranscript string) {
	http.SetCookie(w, m.cookie(SessionCookieName, token))

	transcript := m.cookie(TranscriptCookieName(token), encodedTranscript)
	transcript.MaxAge = int(m.transcriptTTL / time.Second)
	http.SetCookie(w, transcript)
}

// Clear expires the session token cookie and every transcript cookie the
// request carries, including the one named after its session token. It
// returns the session token, or "" when the request had none.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) string {
	http.SetCookie(w, m.expired(SessionCookieName))

	token, _ := m.Token(r)
	expired := make(map[string]bool)
	if token != "" {
		expired[TranscriptCookieName(token)] = true
		http.SetCookie(w, m.expired(TranscriptCookieName(token)))
	}
	for _, c := range r.Cookies() {
		if !strings.HasPrefix(c.Name, TranscriptCookiePrefix) || expired[c.Name] {
			continue
		}
		expired[c.Name] = true
		http.SetCookie(w, m.expired(c.Name))
	}
	return token
}

func (m *Manager) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	}
}

func (m *Manager) expired(name string) *http.Cookie {
	c := m.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
