package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/docsmith/internal/requestid"
)

// TokenSource supplies the credential attached to outgoing requests.
// An empty string means "no token held".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type tokenKey struct{}

// WithToken pins the calls made with ctx to token, bypassing the
// gateway's TokenSource. An empty token sends no Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token pinned with WithToken, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok
}

// bearerTransport injects the bearer token and request ID into every request.
type bearerTransport struct {
	base   http.RoundTripper
	source TokenSource
}

func (t *bearerTransport) token(ctx context.Context) string {
	if tok, ok := TokenFromContext(ctx); ok {
		return tok
	}
	if t.source == nil {
		return ""
	}
	return t.source.Token()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	r := req.Clone(ctx)
	r.Header.Del("Authorization")
	if tok := t.token(ctx); tok != "" {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	r.Header.Set(requestid.Header, requestid.FromContext(ctx))

	return t.base.RoundTrip(r)
}
