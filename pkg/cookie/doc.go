// Package cookie provides a small HTTP cookie manager that applies shared
// default attributes to every cookie it writes.
//
// # Overview
//
// The Manager type is the entry point. It is created with a set of default
// cookie Options (Path "/", HttpOnly, SameSite=Lax unless overridden) and
// offers Set, Get and Delete. Set replaces any Set-Cookie already queued for
// the same name on the response, so repeated writes within one response are
// idempotent and the last one wins.
//
// # Usage
//
//	import "github.com/dmitrymomot/authsession/pkg/cookie"
//
//	man := cookie.New(cookie.WithSecure(true))
//
//	http.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
//	    man.Set(w, "sid_user", id.String(), cookie.WithMaxAge(86400))
//	})
//
//	http.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
//	    v, err := man.Get(r, "sid_user")
//	    _ = v
//	    _ = err
//	})
//
// # Configuration
//
// The Config struct allows the manager to be constructed from environment
// variables via github.com/caarlos0/env. Only non-zero fields are applied.
//
//	cfg := cookie.DefaultConfig()
//	_ = env.Parse(&cfg)
//	man := cookie.NewFromConfig(cfg)
//
// # Error Handling
//
// Get returns ErrCookieNotFound when the request carries no such cookie.
package cookie
