package pcpower

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func agent(t *testing.T, status int, auth *string) (string, uint) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*auth = r.URL.Query().Get("auth")
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	p, err := strconv.ParseUint(port, 10, 32)
	require.NoError(t, err)
	return host, uint(p)
}

func TestShutdownSendsPassword(t *testing.T) {

	assert := assert.New(t)

	var auth string
	ip, port := agent(t, http.StatusOK, &auth)
	s := NewHTTPShutdowner(config.PCConfig{ShutdownPort: port, ShutdownPassword: "s3cr&t"}, zap.NewNop())

	assert.NoError(s.Shutdown(context.Background(), ip))
	assert.Equal("s3cr&t", auth)
}

func TestShutdownRejectedIsTransportError(t *testing.T) {

	var auth string
	ip, port := agent(t, http.StatusForbidden, &auth)
	s := NewHTTPShutdowner(config.PCConfig{ShutdownPort: port}, zap.NewNop())

	err := s.Shutdown(context.Background(), ip)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
