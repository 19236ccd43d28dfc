package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/core"
	"github.com/agenthands/bookgraph/internal/graphstore"
	"github.com/agenthands/bookgraph/internal/logging"
	"github.com/agenthands/bookgraph/internal/splitter"
)

type Server struct {
	Graph    *core.BookGraph
	Splitter *splitter.Splitter
	Config   config.ServerConfig
	logger   *zap.Logger
}

func NewServer(graph *core.BookGraph, split *splitter.Splitter, cfg config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		Graph:    graph,
		Splitter: split,
		Config:   cfg,
		logger:   logging.OrNop(logger),
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if s.Config.MaxUploadMB > 0 {
		r.MaxMultipartMemory = s.Config.MaxUploadMB << 20
	}

	r.GET("/", s.UploadForm)
	r.GET("/stats", s.Stats)
	r.POST("/chunks", s.AddChunks)
	r.POST("/text", s.AddText)
	r.POST("/documents", s.AddDocument)
	r.POST("/extract", s.Extract)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type AddChunksRequest struct {
	Chunks []string `json:"chunks" binding:"required"`
}

func (s *Server) AddChunks(c *gin.Context) {
	var req AddChunksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.ingest(c, req.Chunks)
}

type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddText splits raw text the same way documents are split, then ingests it.
func (s *Server) AddText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.ingest(c, s.Splitter.SplitText(req.Text))
}

func (s *Server) ingest(c *gin.Context, chunks []string) {
	batch, err := s.Graph.AddChunks(c.Request.Context(), chunks)
	if err != nil {
		s.logger.Error("failed to ingest chunks", zap.Int("completed", batch.Chunks), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to ingest chunks", "stats": batch})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stats": batch})
}

// multipartOverhead leaves room for the boundaries and part headers around
// an upload of exactly the configured size.
const multipartOverhead = 64 << 10

func (s *Server) AddDocument(c *gin.Context) {
	limit := s.Config.MaxUploadMB << 20
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	if limit > 0 && file.Size > limit {
		s.tooLarge(c)
		return
	}
	if !splitter.Supported(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", filepath.Ext(file.Filename))})
		return
	}

	path, err := saveUpload(file)
	if err != nil {
		s.logger.Error("failed to save upload", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload"})
		return
	}
	defer os.Remove(path)

	batch, err := s.Graph.AddDocument(c.Request.Context(), path)
	if err != nil {
		s.logger.Error("failed to ingest document", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to ingest document", "stats": batch})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "file": file.Filename, "stats": batch})
}

func (s *Server) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File exceeds %d MB", s.Config.MaxUploadMB)})
}

// saveUpload copies the uploaded file to a temp file that keeps the original
// extension, which the splitter uses to pick a reader.
func saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "bookgraph-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (s *Server) Extract(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, s.Graph.Extract(c.Request.Context(), req.Text))
}

func (s *Server) Stats(c *gin.Context) {
	counts, err := s.Graph.Counts(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to count graph", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to count graph"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *Server) UploadForm(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadForm))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, graphstore.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, splitter.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

const uploadForm = `<!DOCTYPE html>
<html>
<head><title>bookgraph</title></head>
<body>
<h1>Upload a document</h1>
<form action="/documents" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".pdf,.txt,.md">
  <button type="submit">Upload</button>
</form>
</body>
</html>
`
