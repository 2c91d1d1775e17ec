// Package session holds the client's authentication state: the bearer token,
// the identity it belongs to, and whether that is known yet.
//
// A Store is constructed once at startup, initialised with Init, and shared
// by reference. It implements api.TokenSource, and its Invalidate method is
// meant to be registered as the gateway's unauthorized handler so that an
// expired token demotes the session as soon as any call discovers it.
package session
