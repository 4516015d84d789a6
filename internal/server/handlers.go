package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/export"
	"github.com/san-kum/termfolio/internal/field"
)

func (s *Server) resume(c *gin.Context) {
	var buf bytes.Buffer
	if err := content.RenderPlain(&buf, s.opts.Content); err != nil {
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) contentJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Content)
}

func (s *Server) fieldSettings(c *gin.Context) {
	width, ok := intParam(c, "width", DefaultWidth, 1, MaxWidth)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"width":    width,
		"settings": field.Configure(width),
	})
}

func (s *Server) simulate(c *gin.Context) (*export.Run, int, bool) {
	width, ok := intParam(c, "width", DefaultWidth, 1, MaxWidth)
	if !ok {
		return nil, 0, false
	}
	frames, ok := intParam(c, "frames", 1, 1, MaxFrames)
	if !ok {
		return nil, 0, false
	}
	seed, err := strconv.ParseInt(c.DefaultQuery("seed", "1"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
		return nil, 0, false
	}
	run, err := export.Simulate(export.SimOptions{Width: width, Seed: seed, Frames: frames, Logger: s.opts.Logger})
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("simulate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
		return nil, 0, false
	}
	return run, width, true
}

func (s *Server) fieldSVG(c *gin.Context) {
	run, width, ok := s.simulate(c)
	if !ok {
		return
	}
	height := width * 9 / 16
	var buf bytes.Buffer
	if err := export.FrameToSVG(&buf, run.Last, width, height, s.opts.Theme); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) edgesSVG(c *gin.Context) {
	run, _, ok := s.simulate(c)
	if !ok {
		return
	}
	series := run.EdgeSeries()
	if len(series) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "need at least 2 frames"})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(export.SeriesToSVG(series, 600, 200, string(s.opts.Theme.Accent))))
}

func (s *Server) stats(c *gin.Context) {
	st, ok := s.opts.Recorder.(Stats)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "telemetry disabled"})
		return
	}
	counts, err := st.Counts(c.Request.Context())
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	unique, err := st.UniqueVisitors(c.Request.Context())
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "unique_visitors": unique})
}

// intParam reads an integer query parameter, writing a 400 and returning
// false when it is malformed or outside [lo, hi].
func intParam(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer in [" + strconv.Itoa(lo) + ", " + strconv.Itoa(hi) + "]"})
		return 0, false
	}
	return v, true
}
