package api

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ivlev/lrcframe/internal/analyzer"
	"github.com/ivlev/lrcframe/internal/log"
	"github.com/ivlev/lrcframe/internal/lrc"
	"github.com/ivlev/lrcframe/internal/store"
	"github.com/ivlev/lrcframe/internal/timeline"
)

// maxBody limits uploaded lyrics
const maxBody = 1 << 20

// LyricsAPI exposes the parser and locator over HTTP.
// Every endpoint takes the raw LRC text as the request body.
type LyricsAPI struct {
	cache    store.Cache // Optional
	fallback float64
}

func NewLyricsAPI(cache store.Cache, fallback float64) *LyricsAPI {
	if fallback <= 0 {
		fallback = lrc.DefaultFallback
	}
	return &LyricsAPI{cache: cache, fallback: fallback}
}

// NewRouter registers the routes on a fresh gin engine
func NewRouter(a *LyricsAPI) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok"})
	})

	v1 := r.Group("/v1")
	v1.POST("/parse", a.parse)
	v1.POST("/locate", a.locate)
	v1.POST("/lint", a.lint)
	return r
}

type parseResponse struct {
	Header lrc.Header      `json:"header"`
	Lines  []lrc.TimedLine `json:"lines"`
	Cached bool            `json:"cached"`
}

type locateResponse struct {
	Found    bool           `json:"found"`
	Index    int            `json:"index"`
	Line     *lrc.TimedLine `json:"line,omitempty"`
	Window   *lrc.Window    `json:"window,omitempty"`
	Progress float64        `json:"progress"`
	Visible  []int          `json:"visible"` // Lines whose window meets [t-trail, t+lead]
}

func (a *LyricsAPI) parse(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	lines, cached := a.lines(c.Request.Context(), raw)
	c.JSON(http.StatusOK, parseResponse{Header: lrc.ParseHeader(raw), Lines: lines, Cached: cached})
}

func (a *LyricsAPI) locate(c *gin.Context) {
	t, err := strconv.ParseFloat(c.Query("t"), 64)
	if err != nil || !finite(t) {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "t (seconds) is required"})
		return
	}

	fallback := a.fallback
	if v := c.Query("fallback"); v != "" {
		if fallback, err = strconv.ParseFloat(v, 64); err != nil || !finite(fallback) || fallback <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "fallback must be a positive number"})
			return
		}
	}

	var lead, trail float64
	for name, dst := range map[string]*float64{"lead": &lead, "trail": &trail} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		if *dst, err = strconv.ParseFloat(v, 64); err != nil || !finite(*dst) || *dst < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": name + " must be a non-negative number"})
			return
		}
	}

	raw, ok := readBody(c)
	if !ok {
		return
	}
	lines, _ := a.lines(c.Request.Context(), raw)

	tl := timeline.New(lines, fallback)
	f, found := tl.At(t)
	resp := locateResponse{Found: found, Index: f.Index, Visible: tl.Visible(t, lead, trail)}
	if found {
		resp.Line = &f.Line
		resp.Window = &f.Window
		resp.Progress = f.Progress
	}
	if resp.Visible == nil {
		resp.Visible = []int{}
	}
	c.JSON(http.StatusOK, resp)
}

func (a *LyricsAPI) lint(c *gin.Context) {
	det, err := analyzer.NewDetector(c.DefaultQuery("variant", "all"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}

	raw, ok := readBody(c)
	if !ok {
		return
	}
	issues, err := det.Detect(raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	if issues == nil {
		issues = []analyzer.Issue{}
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "issues": issues})
}

// lines parses raw through the cache when one is configured
func (a *LyricsAPI) lines(ctx context.Context, raw string) ([]lrc.TimedLine, bool) {
	if a.cache == nil {
		return lrc.Parse(raw), false
	}

	key := store.Key(raw)
	if lines, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		return lines, true
	} else if err != nil {
		log.WithComponent("api").Warn("cache get failed", "err", err)
	}

	lines := lrc.Parse(raw)
	if err := a.cache.Set(ctx, key, lines); err != nil {
		log.WithComponent("api").Warn("cache set failed", "err", err)
	}
	return lines, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func readBody(c *gin.Context) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"code": 1, "msg": "body too large"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		}
		return "", false
	}
	return string(data), true
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithComponent("api").Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// Serve runs the API until ctx is cancelled
func Serve(ctx context.Context, addr string, a *LyricsAPI) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
