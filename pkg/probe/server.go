package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"bargain/pkg/contextx"
	"bargain/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	httpServerReadHeaderTimeout = 5 * time.Second
	readinessTimeout            = 2 * time.Second
	checkOK                     = "ok"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Check reports whether a dependency (database, rates table) can serve traffic.
type Check func(ctx context.Context) error

type Server struct {
	listenAddress string
	options       Options
	checks        map[string]Check
}

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type state struct {
	Options
	Checks map[string]string `json:"checks,omitempty"`
}

func NewServer(
	listenAddress string,
	options Options,
) Server {
	return Server{
		listenAddress: listenAddress,
		options:       options,
		checks:        map[string]Check{},
	}
}

// WithCheck adds a named readiness check to a copy of the server.
func (s Server) WithCheck(name string, check Check) Server {
	checks := maps.Clone(s.checks)
	checks[name] = check
	s.checks = checks

	return s
}

func (s Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handlerHealthz)
	mux.HandleFunc("/ready", s.handlerReady)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("probe server started",
		slog.String("address", s.listenAddress),
		slog.Int("checks", len(s.checks)),
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, r *http.Request) {
	s.write(r.Context(), w, http.StatusOK, state{Options: s.options})
}

func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	st := state{Options: s.options}

	for name, check := range s.checks {
		if st.Checks == nil {
			st.Checks = make(map[string]string, len(s.checks))
		}

		st.Checks[name] = checkOK

		if err := check(ctx); err != nil {
			logger(ctx).Warn("readiness check failed", slog.String("check", name), logx.Error(err))

			st.Checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	s.write(ctx, w, status, st)
}

func (s Server) write(ctx context.Context, w http.ResponseWriter, status int, st state) {
	body, err := json.Marshal(st)
	if err != nil {
		logger(ctx).Error("json.Marshal", logx.Error(err))
	}

	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
