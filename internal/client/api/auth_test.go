package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/docsmith/internal/client/api/apitest"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_LoginAndMe(t *testing.T) {
	srv, g, holder := newTestGateway(t)
	srv.AddUser("A", "a@b.com", "pw")
	srv.UseStaticToken("a@b.com", "tok123")

	resp, err := g.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok123", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)

	holder.set(resp.AccessToken)
	u, err := g.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), u.ID)
	assert.Equal(t, "A", u.Name)
	assert.Equal(t, "a@b.com", u.Email)
}

func TestGateway_LoginRejected(t *testing.T) {
	srv, g, _ := newTestGateway(t)
	srv.AddUser("A", "a@b.com", "pw")

	_, err := g.Login(context.Background(), "a@b.com", "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "Invalid email or password", Message(err, "Login failed"))
}

func TestGateway_Register(t *testing.T) {
	srv, g, _ := newTestGateway(t)
	srv.AddUser("Existing", "taken@b.com", "pw")

	resp, err := g.Register(context.Background(), "B", "b@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.ID("2"), resp.UserID)
	assert.NotEmpty(t, resp.Message)

	_, err = g.Register(context.Background(), "C", "taken@b.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Email already registered", Message(err, "Registration failed"))

	_, err = g.Register(context.Background(), "D", "", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	assert.Equal(t, "field required", Message(err, "Registration failed"))

	assert.Len(t, srv.RequestsTo(apitest.RouteRegister), 3)
}

func TestGateway_LoginWithoutTokenIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"","token_type":"bearer"}`))
	}))
	t.Cleanup(srv.Close)

	resp, err := NewGateway(srv.URL+"/api").Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Contains(t, err.Error(), "decode response")
}
