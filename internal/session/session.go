package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Cookie is one name/value pair from the portal's cookie jar.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the authentication material obtained from one interactive login:
// the full cookie set plus the XSRF token extracted from it. A session is
// never patched; it is replaced wholesale on reacquisition.
type Session struct {
	Cookies   []Cookie `json:"cookies"`
	XSRFToken string   `json:"xsrfToken"`
}

// CookieHeader joins the cookie set into a single Cookie header value.
func (s *Session) CookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// SaveFile writes the cookie set as indented JSON, overwriting any previous
// file. The file exists for operator inspection and crash recovery.
func (s *Session) SaveFile(path string) error {
	data, err := json.MarshalIndent(s.Cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadFile rebuilds a session from a previously saved cookie file.
func LoadFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s := &Session{Cookies: cookies}
	s.XSRFToken = s.findXSRFToken()
	return s, nil
}

const xsrfCookieName = "XSRF-TOKEN"

func (s *Session) findXSRFToken() string {
	for _, c := range s.Cookies {
		if c.Name == xsrfCookieName {
			return c.Value
		}
	}
	return ""
}
