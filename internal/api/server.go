package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pbaille/taskboard/internal/config"
	"github.com/pbaille/taskboard/internal/tracker"
)

// Server handles HTTP requests for the task API
type Server struct {
	tracker *tracker.Tracker
	cfg     *config.Config
	router  *gin.Engine
}

// New creates a new API server
func New(tr *tracker.Tracker, cfg *config.Config) *Server {
	router := gin.New()
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery(), withCORS(cfg.Server.CORSOrigin))

	s := &Server{
		tracker: tr,
		cfg:     cfg,
		router:  router,
	}

	router.GET("/", s.root)
	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		// Tasks
		v1.GET("/tasks", s.listTasks)
		v1.POST("/tasks", s.createTask)
		v1.GET("/tasks/:taskId", s.getTask)
		v1.PATCH("/tasks/:taskId", s.updateTask)
		v1.DELETE("/tasks/:taskId", s.deleteTask)
		v1.PATCH("/tasks/:taskId/toggle", s.toggleTask)
		v1.PATCH("/tasks/:taskId/archive", s.archiveTask)
		v1.PATCH("/tasks/:taskId/restore", s.restoreTask)

		// Subtasks
		v1.POST("/tasks/:taskId/subtasks", s.addSubTask)
		v1.PATCH("/tasks/:taskId/subtasks/:subtaskId", s.updateSubTask)
		v1.DELETE("/tasks/:taskId/subtasks/:subtaskId", s.deleteSubTask)
		v1.PATCH("/tasks/:taskId/subtasks/:subtaskId/toggle", s.toggleSubTask)

		// Tags
		v1.GET("/tags", s.listTags)
		v1.POST("/tags", s.createTag)
		v1.GET("/tags/:tagId", s.getTag)
		v1.PATCH("/tags/:tagId", s.updateTag)
		v1.DELETE("/tags/:tagId", s.deleteTag)

		// Statistics
		v1.GET("/stats", s.stats)
		v1.GET("/contributions", s.contributions)
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, codeNotFound, "route not found")
	})

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for the dashboard
func withCORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the taskboard API",
		"version": "1.0.0",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
