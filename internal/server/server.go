package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router with its middleware chain, the API routes and, when
// media lives on local disk, the static media route.
func New(cfg *config.Config, db *gorm.DB, store service.ObjectStore, svc api.Services, opts api.Options) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	if local, ok := store.(*service.LocalStore); ok {
		prefix := mediaPrefix(cfg.MediaURL)
		router.Static(prefix, local.Dir())
		log.WithFields(log.Fields{"prefix": prefix, "dir": local.Dir()}).Info("serving media from disk")
	}

	api.RegisterRoutes(router, db, svc, opts)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.http.Addr).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// mediaPrefix turns MEDIA_URL, absolute or not, into the route prefix.
func mediaPrefix(mediaURL string) string {
	prefix := "/media"
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" && u.Path != "/" {
		prefix = u.Path
	}
	for len(prefix) > 1 && prefix[len(prefix)-1] == '/' {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
