package persist

import (
	"errors"
	"net/http"
	"time"
)

// CookieStore maps the Store capability onto HTTP cookies for one
// request/response pair. Reads come from the inbound request; writes and
// deletes are emitted as Set-Cookie headers on the response.
//
// Writes are also reflected into an overlay so that a Get within the same
// invocation observes them, which plain http.Request cookies would not.
type CookieStore struct {
	w        http.ResponseWriter
	r        *http.Request
	defaults Options
	overlay  map[string]*string // nil marks a deletion
}

// NewCookieStore builds a per-invocation cookie adapter. Defaults follow the
// provider contract: path "/", http-only set, secure unset because the
// provider's login flow still redirects through plain-http landing pages.
// Deployments behind TLS pass WithSecure(true).
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts ...Option) *CookieStore {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
	}
	defaults = applyOptions(defaults, opts)

	return &CookieStore{
		w:        w,
		r:        r,
		defaults: defaults,
		overlay:  make(map[string]*string),
	}
}

func (s *CookieStore) Get(name string) (string, error) {
	if value, ok := s.overlay[name]; ok {
		if value == nil {
			return "", ErrSlotNotFound
		}
		return *value, nil
	}

	cookie, err := s.r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrSlotNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

func (s *CookieStore) Set(entry Entry) error {
	if entry.Name == "" {
		return ErrEmptyName
	}

	path := entry.Path
	if path == "" {
		path = s.defaults.Path
	}
	domain := entry.Domain
	if domain == "" {
		domain = s.defaults.Domain
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     entry.Name,
		Value:    entry.Value,
		Path:     path,
		Domain:   domain,
		Expires:  entry.Expires,
		HttpOnly: entry.HttpOnly || s.defaults.HttpOnly,
		Secure:   entry.Secure || s.defaults.Secure,
		SameSite: s.defaults.SameSite,
	})

	value := entry.Value
	s.overlay[entry.Name] = &value
	return nil
}

// Delete clears a slot by emitting an already-expired cookie.
func (s *CookieStore) Delete(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     s.defaults.Path,
		Domain:   s.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: s.defaults.HttpOnly,
		Secure:   s.defaults.Secure,
		SameSite: s.defaults.SameSite,
	})

	s.overlay[name] = nil
	return nil
}

func (s *CookieStore) Names() []string {
	cookies := s.r.Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if value, ok := s.overlay[c.Name]; ok && value == nil {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}
