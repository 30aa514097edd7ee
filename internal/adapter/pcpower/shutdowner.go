// Package pcpower talks to the shutdown agent running on the desktop.
package pcpower

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"go.uber.org/zap"
)

const OP_SHUTDOWN = "shutdown"

type HTTPShutdowner struct {
	port     uint
	password string
	http     *http.Client
	logger   *zap.Logger
}

func NewHTTPShutdowner(cfg config.PCConfig, logger *zap.Logger) *HTTPShutdowner {
	return &HTTPShutdowner{
		port:     cfg.ShutdownPort,
		password: cfg.ShutdownPassword,
		http:     &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

// Shutdown calls http://<ip>:<port>/?auth=<password>.
func (s *HTTPShutdowner) Shutdown(ctx context.Context, ip string) error {
	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(ip, strconv.FormatUint(uint64(s.port), 10)),
		Path:     "/",
		RawQuery: url.Values{"auth": []string{s.password}}.Encode(),
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &domain.TransportError{Op: OP_SHUTDOWN, Err: err}
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: OP_SHUTDOWN, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.TransportError{Op: OP_SHUTDOWN, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("shutdown agent answered %s", resp.Status)}
	}
	s.logger.Info("pc shutdown requested", zap.String("ip", ip))
	return nil
}
