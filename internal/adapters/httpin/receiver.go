// Package httpin receives station pushes over HTTP. The base unit posts its report as a
// form; JSON bodies are accepted too.
package httpin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

type Config struct {
	Addr    string
	Path    string
	Timeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Path == "" {
		c.Path = "/data/report"
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Receiver serves the report endpoint and hands every push to the station loop, waiting
// for its outcome before answering.
type Receiver struct {
	cfg    Config
	obs    ports.Observability
	router *gin.Engine

	mu  sync.RWMutex
	out chan<- *domain.Submission
	srv *http.Server
}

func NewReceiver(cfg Config, obs ports.Observability) *Receiver {
	cfg.applyDefaults()

	r := &Receiver{cfg: cfg, obs: obs, router: gin.New()}
	r.router.Use(gin.Recovery())
	r.router.POST(cfg.Path, r.handleReport)
	r.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	return r
}

// Handler exposes the router, mainly for embedding and tests.
func (r *Receiver) Handler() http.Handler { return r.router }

// Attach sets the submission channel without starting a listener.
func (r *Receiver) Attach(out chan<- *domain.Submission) {
	r.mu.Lock()
	r.out = out
	r.mu.Unlock()
}

func (r *Receiver) Start(out chan<- *domain.Submission) error {
	ln, err := net.Listen("tcp", r.cfg.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           r.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.mu.Lock()
	r.out = out
	r.srv = srv
	r.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("receiver_exited", err, ports.F("addr", r.cfg.Addr))
		}
	}()
	r.obs.LogInfo("receiver_listening", ports.F("addr", ln.Addr().String()), ports.F("path", r.cfg.Path))
	return nil
}

func (r *Receiver) Stop() error {
	r.mu.RLock()
	srv := r.srv
	r.mu.RUnlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (r *Receiver) handleReport(c *gin.Context) {
	r.mu.RLock()
	out := r.out
	r.mu.RUnlock()
	if out == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "receiver not started"})
		return
	}

	fields, err := readFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), r.cfg.Timeout)
	defer cancel()

	sub := &domain.Submission{
		Fields:     fields,
		RemoteAddr: c.Request.RemoteAddr,
		ReceivedAt: time.Now().UTC(),
		Result:     make(chan error, 1),
	}

	select {
	case out <- sub:
	case <-ctx.Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "station busy"})
		return
	}

	select {
	case err := <-sub.Result:
		writeResult(c, err)
	case <-ctx.Done():
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "report not processed in time"})
	}
}

func readFields(c *gin.Context) (map[string]any, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		fields := map[string]any{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]any, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) == 1 {
			fields[k] = vs[0]
			continue
		}
		fields[k] = vs
	}
	return fields, nil
}

func writeResult(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, domain.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

var _ ports.Receiver = (*Receiver)(nil)
