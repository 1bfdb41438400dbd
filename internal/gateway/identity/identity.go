// Package identity resolves the authenticated user attached to a request.
// The login flow itself lives in front of this service; here we only read
// the delegated credential it leaves behind. No user means archive-only
// delivery downstream.
package identity

import (
	"net/http"
	"strings"
)

// User is an authenticated identity with a delegated repository-host
// credential. Name and Email may be empty; Token may carry any scope, the
// delivery layer checks it lazily.
type User struct {
	Login string
	Name  string
	Email string
	Token string
}

// Provider extracts the user from an incoming request, or nil when the
// request is anonymous.
type Provider interface {
	FromRequest(r *http.Request) *User
}

const tokenCookie = "gh_token"

// HeaderProvider reads the bearer token from the Authorization header or
// the session cookie the login handler sets. The login/display metadata is
// resolved later against the repository host; only the credential travels
// with the request.
type HeaderProvider struct{}

func NewHeaderProvider() *HeaderProvider {
	return &HeaderProvider{}
}

func (p *HeaderProvider) FromRequest(r *http.Request) *User {
	if r == nil {
		return nil
	}
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); auth != "" {
		lower := strings.ToLower(auth)
		if strings.HasPrefix(lower, "bearer ") || strings.HasPrefix(lower, "token ") {
			token := strings.TrimSpace(auth[strings.IndexByte(auth, ' ')+1:])
			if token != "" {
				return &User{Token: token}
			}
		}
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		if token := strings.TrimSpace(c.Value); token != "" {
			return &User{Token: token}
		}
	}
	return nil
}

// StaticProvider always returns the same user; used in tests.
type StaticProvider struct {
	User *User
}

func (p *StaticProvider) FromRequest(*http.Request) *User {
	return p.User
}
