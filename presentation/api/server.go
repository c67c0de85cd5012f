package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"formpilot/application/scripts"
	"formpilot/domain/entities"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Runner executes automation runs. *automation.Engine implements it.
type Runner interface {
	Run(ctx context.Context, req entities.RunRequest) (entities.Result, error)
	Scripts() []scripts.Descriptor
}

// RejectionRecorder counts requests turned away with 503.
type RejectionRecorder interface {
	RunRejected()
}

// Options configures the HTTP server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	// Users maps bearer tokens to user ids.
	Users map[string]string
	// MaxConcurrentRuns bounds simultaneous runs; extra requests get 503.
	MaxConcurrentRuns int
	Gatherer          prometheus.Gatherer
	Rejections        RejectionRecorder
	Debug             bool
}

// Server exposes the engine over HTTP.
type Server struct {
	runner     Runner
	opts       Options
	engine     *gin.Engine
	httpServer *http.Server
	slots      chan struct{}
	logger     *logrus.Logger
	startTime  time.Time
}

// NewServer - creates the gin engine and registers routes
func NewServer(runner Runner, opts Options, logger *logrus.Logger) *Server {
	if opts.MaxConcurrentRuns <= 0 {
		opts.MaxConcurrentRuns = 1
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(requestLogger(logger))
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 || (len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		runner:    runner,
		opts:      opts,
		engine:    engine,
		slots:     make(chan struct{}, opts.MaxConcurrentRuns),
		logger:    logger,
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	v1 := s.engine.Group("/api/v1")
	v1.Use(RequireToken(s.opts.Users))
	{
		v1.POST("/runs", s.handleRun)
		v1.GET("/scripts", s.handleScripts)
	}
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start - serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Infof("Starting HTTP server on %s", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown - stops accepting requests and waits for in-flight runs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...")
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// tryAcquire takes a run slot without blocking.
func (s *Server) tryAcquire() bool {
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	<-s.slots
}
