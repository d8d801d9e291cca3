package security

import (
	"net/http"
	"strings"
)

// RoutePolicy decides which requests require a bearer token. Reads and
// the auth endpoints are public; every mutation of berths, reservations
// and users is protected.
type RoutePolicy struct{}

// NewRoutePolicy creates the default route policy
func NewRoutePolicy() *RoutePolicy {
	return &RoutePolicy{}
}

var protectedPrefixes = []string{"/catways", "/reservations", "/users"}

// RequiresAuth reports whether the request must carry a valid token
func (p *RoutePolicy) RequiresAuth(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
	default:
		return false
	}

	for _, prefix := range protectedPrefixes {
		if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
			return true
		}
	}
	return false
}

// IsLogin reports whether the request is a login attempt; those get
// stricter rate limiting keyed by client address.
func (p *RoutePolicy) IsLogin(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/auth/login"
}
