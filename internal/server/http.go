package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/config"
	"github.com/kubev2v/assessment-report-agent/internal/server/middlewares"
	"github.com/kubev2v/assessment-report-agent/pkg/certificates"
)

const (
	ProductionServer string = "prod"
	DevServer        string = "dev"
	apiV1            string = "/api/v1"

	certificateValidity = 365 * 24 * time.Hour
)

type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	gin.SetMode(gin.DebugMode)
	if cfg.Server.ServerMode == ProductionServer {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.ServerMode == ProductionServer {
		serveStatics(engine, cfg.Server.StaticsFolder)

		tlsConfig, err := certificates.NewTLSConfig(certificateValidity)
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = tlsConfig
	}

	router := engine.Group(apiV1)

	router.Use(
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.S().Desugar(), true),
	)

	registerHandlerFn(router)

	return &Server{srv: srv}, nil
}

// serveStatics serves the single page UI from folder. Unknown non API routes fall back to index.html.
func serveStatics(engine *gin.Engine, folder string) {
	index := path.Join(folder, "index.html")

	engine.Static("/static", folder)
	engine.Static("/assets", path.Join(folder, "assets"))
	engine.StaticFile("/", index)
	engine.StaticFile("/favicon.ico", path.Join(folder, "favicon.ico"))

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.File(index)
	})
}

// Start serves HTTPS when a TLS configuration is set, HTTP otherwise.
// It returns nil once the server was stopped.
func (r *Server) Start(ctx context.Context) error {
	var err error
	if r.srv.TLSConfig != nil {
		err = r.srv.ListenAndServeTLS("", "")
	} else {
		err = r.srv.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (r *Server) Stop(ctx context.Context) {
	if err := r.srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("server shutdown", "error", err)
	}
}
