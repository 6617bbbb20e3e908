package cookie

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Manager writes, reads and deletes cookies with shared default attributes.
type Manager struct {
	defaults Options
}

// New creates a Manager. Defaults are Path "/", HttpOnly and SameSite=Lax;
// opts override them.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{defaults: applyOptions(defaults, opts)}
}

// Set writes a cookie. An earlier Set-Cookie for the same name in the same
// response is replaced, so the last write wins.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	replace(w, cookie)
}

// Get returns the value of the named request cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete instructs the client to drop the named cookie. Pass the options the
// cookie was set with: browsers only drop a cookie whose Path and Domain match.
// MaxAge in opts is ignored.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	}
	replace(w, cookie)
}

// replace drops pending Set-Cookie values for the cookie name before adding c.
func replace(w http.ResponseWriter, c *http.Cookie) {
	v := c.String()
	if v == "" {
		return
	}

	h := w.Header()
	prefix := c.Name + "="
	var kept []string
	for _, existing := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(existing, prefix) {
			kept = append(kept, existing)
		}
	}
	h.Del("Set-Cookie")
	for _, existing := range kept {
		h.Add("Set-Cookie", existing)
	}
	h.Add("Set-Cookie", v)
}
