package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

// Service is the HTTP surface over a single generator. It mints identifiers,
// decodes any of their external forms, and exposes health and metrics.
type Service struct {
	cfg    Config
	log    logger.Logger
	gen    *snowflake.Generator
	router *mux.Router
}

func New(cfg Config, log logger.Logger) (*Service, error) {
	machineID, err := cfg.machineID()
	if err != nil {
		return nil, err
	}
	gen, err := snowflake.NewGenerator(machineID, cfg.Epoch)
	if err != nil {
		return nil, err
	}

	s := &Service{cfg: cfg, log: log, gen: gen}
	s.router = s.newRouter()
	return s, nil
}

func (s *Service) newRouter() *mux.Router {
	r := mux.NewRouter()

	r.Use(metricsMiddleware)
	r.Use(s.logMiddleware)

	r.HandleFunc("/healthz", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/v1/snowflakes", s.mint).Methods("POST")
	r.HandleFunc("/v1/snowflakes/{code}", s.decode).Methods("GET")

	return r
}

// Handler exposes the assembled router, primarily for tests.
func (s *Service) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then drains in flight requests
// before returning.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s machineId=%d epoch=%s",
			s.cfg.Addr, s.gen.MachineID(), s.gen.Epoch().Format(time.RFC3339))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
