// Package server exposes the decision bridge to the game backend over HTTP
// and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lox/sambridge/internal/bot"
	"github.com/lox/sambridge/internal/bridge"
	"github.com/lox/sambridge/internal/journal"
	"github.com/lox/sambridge/internal/store"
)

// Outcomes persists decisions and their reported correctness
type Outcomes interface {
	MarkOutcome(ctx context.Context, id string, correct bool) error
	AccuracyStats(ctx context.Context) (store.Accuracy, error)
}

// Journal records Báo Sâm declarations played out at the table
type Journal interface {
	RecordBaoSam(rec journal.BaoSam) error
	Stats() (journal.Stats, error)
}

// Options wires the server's collaborators. Outcomes and Journal are
// optional; their endpoints answer 501 when unset.
type Options struct {
	Bridge         *bridge.Bridge
	Bot            *bot.Bot
	Outcomes       Outcomes
	Journal        Journal
	AllowedOrigins []string
}

// Server serves decisions over HTTP and WebSocket
type Server struct {
	bridge   *bridge.Bridge
	bot      *bot.Bot
	outcomes Outcomes
	journal  Journal
	origins  []string
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu          sync.Mutex
	connections map[*Connection]struct{}
}

// New creates a server
func New(opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		bridge:      opts.Bridge,
		bot:         opts.Bot,
		outcomes:    opts.Outcomes,
		journal:     opts.Journal,
		origins:     opts.AllowedOrigins,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      s.checkOrigin,
	}
	return s
}

// Router configures the gin routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	corsCfg := cors.DefaultConfig()
	if len(s.origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)

	v1 := r.Group("/v1")
	{
		v1.POST("/declare", s.handleDeclare)
		v1.POST("/move", s.handleMove)
		v1.GET("/status", s.handleStatus)
		v1.GET("/stats", s.handleStats)
		v1.POST("/decisions/:id/outcome", s.handleOutcome)
		v1.POST("/bao-sam", s.handleBaoSam)
		v1.GET("/bao-sam/stats", s.handleBaoSamStats)
		v1.GET("/ws", s.handleWebSocket)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	s.closeConnections()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.origins) == 0 {
		return true
	}
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	for _, allowed := range s.origins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
}
