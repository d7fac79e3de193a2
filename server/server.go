package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"vitals-server/cache"
	"vitals-server/confs"
	"vitals-server/db"
	"vitals-server/handlers"
	httpHandler "vitals-server/handlers/http"
	"vitals-server/middleware"
	"vitals-server/repositories"
	"vitals-server/services"
	"vitals-server/usecases"
	"vitals-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Server struct {
	app       *gin.Engine
	cfg       *confs.Config
	db        db.Database
	hub       *ws.Hub
	limiter   *cache.WindowCache
	publisher services.ReadingPublisher
	completer services.Completer
}

type Option func(*Server)

// WithCompleter enables model-generated tips.
func WithCompleter(completer services.Completer) Option {
	return func(s *Server) { s.completer = completer }
}

// WithPublishers adds reading event sinks next to the websocket feed.
func WithPublishers(publishers ...services.ReadingPublisher) Option {
	return func(s *Server) {
		s.publisher = append(services.MultiPublisher{s.publisher}, publishers...)
	}
}

func NewServer(cfg *confs.Config, database db.Database, opts ...Option) *Server {
	hub := ws.NewHub()
	s := &Server{
		app:       gin.New(),
		cfg:       cfg,
		db:        database,
		hub:       hub,
		limiter:   cache.NewWindowCache(cfg.RateLimitWindow),
		publisher: services.NewHubPublisher(hub),
	}
	// only the listed proxies may speak for the client through X-Forwarded-For
	if err := s.app.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("ignoring TRUSTED_PROXIES: %v", err)
		_ = s.app.SetTrustedProxies(nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(
		middleware.Recovery(),
		gin.Logger(),
		middleware.ErrorHandler(),
		middleware.SecurityHeaders(),
		middleware.CORS(s.cfg.CORSOrigins),
		middleware.RateLimit(s.limiter, s.cfg.RateLimitMax),
	)
	s.app.NoRoute(middleware.NotFound())

	// Initialize repositories
	readingRepo := repositories.NewReadingPgRepository(s.db)
	userRepo := repositories.NewUserPgRepository(s.db)

	// Initialize use cases
	readingUseCase := usecases.NewReadingUseCase(readingRepo, s.publisher)
	userUseCase := usecases.NewUserUseCase(userRepo)

	// Initialize handlers
	readingHandler := httpHandler.NewReadingHandler(readingUseCase)
	userHandler := httpHandler.NewUserHandler(userUseCase)
	tipsHandler := httpHandler.NewTipsHandler(services.NewTipsService(s.completer, s.cfg.AITimeout))
	streamHandler := handlers.NewStreamHandler(s.hub, s.cfg.CORSOrigins)

	api := s.app.Group("/api")
	{
		readings := api.Group("/readings")
		{
			readings.POST("/add", readingHandler.AddReading)
			readings.GET("/all", readingHandler.ListReadings)
			readings.GET("/summary", readingHandler.Summary)
			readings.GET("/stream", streamHandler.HandleReadingStream) // websocket feed
			readings.GET("/:id", readingHandler.GetReading)
			readings.PUT("/:id", readingHandler.UpdateReading)
			readings.DELETE("/:id", readingHandler.DeleteReading)
		}

		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.PUT("/:clerkId", userHandler.UpdateUser)
		}

		api.GET("/ai/tips", tipsHandler.GetTips)
		api.GET("/health", httpHandler.Health)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully and
// closes the event publishers and the rate-limit sweeper.
func (s *Server) Start(ctx context.Context) error {
	stopSweeper := s.limiter.Start(s.limiter.Size())
	defer stopSweeper()
	defer func() {
		if err := s.publisher.Close(); err != nil {
			log.Printf("[events] closing publishers: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.app,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
