package api

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/handler"
	"github.com/martijn/inkwell/internal/api/middleware"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/repository"
	"github.com/martijn/inkwell/internal/core/service"
	"github.com/martijn/inkwell/pkg/config"
	"github.com/martijn/inkwell/pkg/logger"
	"github.com/martijn/inkwell/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
}

// NewServer creates the blog's HTTP server. revocations may be nil.
func NewServer(
	cfg *config.Config,
	db handler.Pinger,
	authService *service.AuthService,
	accountService *service.AccountService,
	postService *service.PostService,
	avatarService *service.AvatarService,
	revocations repository.RevocationStore,
) (*Server, error) {
	// Set Gin mode
	if !cfg.IsDevMode() && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	templates, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	cssFS, err := fs.Sub(web.Static(), "css")
	if err != nil {
		return nil, fmt.Errorf("failed to open stylesheets: %w", err)
	}

	sessions := session.NewManager(cfg.CookieSecure, cfg.RememberTTL)
	renderer := view.NewRenderer(sessions)

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	// Global middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandlerMiddleware(renderer))
	router.Use(middleware.LoadUser(authService, sessions))
	router.Use(middleware.CSRF(sessions, renderer, cfg.MaxUploadBytes()))

	// Initialize handlers
	homeHandler := handler.NewHomeHandler(postService, renderer)
	authHandler := handler.NewAuthHandler(authService, accountService, sessions, renderer)
	accountHandler := handler.NewAccountHandler(accountService, renderer)
	postHandler := handler.NewPostHandler(postService, renderer)
	avatarHandler := handler.NewAvatarHandler(avatarService, renderer)
	healthHandler := handler.NewHealthHandler(db, revocations)

	// Public pages
	router.GET("/", homeHandler.Home)
	router.GET("/home", homeHandler.Home)
	router.GET("/about", homeHandler.About)
	router.GET("/logout", authHandler.Logout)

	// Assets
	router.GET("/static/images/:name", avatarHandler.Avatar)
	router.StaticFS("/static/css", http.FS(cssFS))

	// Guest-only pages
	guest := router.Group("/")
	guest.Use(middleware.RedirectIfAuthenticated())
	{
		guest.GET("/register", authHandler.ShowRegister)
		guest.POST("/register", authHandler.Register)
		guest.GET("/login", authHandler.ShowLogin)
		guest.POST("/login", authHandler.Login)
	}

	// Protected pages (login required)
	protected := router.Group("/")
	protected.Use(middleware.RequireLogin(renderer))
	{
		protected.GET("/account", accountHandler.ShowAccount)
		protected.POST("/account", accountHandler.UpdateAccount)
		protected.GET("/post/new", postHandler.ShowCreatePost)
		protected.POST("/post/new", postHandler.CreatePost)
		protected.GET("/post/:id", postHandler.ShowPost)
		protected.POST("/post/:id", postHandler.ShowPost)
	}

	// Health check
	router.GET("/health", healthHandler.Liveness)
	router.GET("/health/ready", healthHandler.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(homeHandler.NotFound)

	server := &Server{
		router: router,
		config: cfg,
	}

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.HTTPHost, s.config.HTTPPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	log := logger.Get()

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		log.Info().Str("addr", addr).Msg("starting HTTPS server")
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
