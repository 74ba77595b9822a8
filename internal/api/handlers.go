package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cartridgeicon/internal/compose"
	"github.com/youruser/cartridgeicon/internal/export"
	"github.com/youruser/cartridgeicon/internal/gradient"
	"github.com/youruser/cartridgeicon/internal/presets"
	"github.com/youruser/cartridgeicon/internal/scheduler"
)

// Caller-side defaults; the renderer itself has none.
const (
	DefaultZoom   = 1.0
	DefaultSize   = export.CanonicalSize
	MaxCanvasSize = 4096
)

// Renderer renders one spec.
type Renderer interface {
	Compose(ctx context.Context, spec compose.IconSpec) (*compose.Result, error)
}

// Previewer is the live preview session.
type Previewer interface {
	Update(ctx context.Context, spec compose.IconSpec) (uint64, error)
	Snapshot() scheduler.Preview
}

type Server struct {
	renderer Renderer
	exporter *export.Exporter
	preview  Previewer
	presets  []presets.Preset
	log      *zap.Logger
}

func NewServer(r Renderer, e *export.Exporter, p Previewer, ps []presets.Preset, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{renderer: r, exporter: e, preview: p, presets: ps, log: log}
}

// iconRequest is the UI's view of an IconSpec. Zoom and size are optional
// and filled from the defaults above.
type iconRequest struct {
	Badge          string   `json:"badge"`
	BadgeIsImage   bool     `json:"badgeIsImage"`
	GradientColors []string `json:"gradientColors"`
	Artwork        string   `json:"artwork"`
	ArtworkZoom    *float64 `json:"artworkZoom"`
	CanvasSize     *int     `json:"canvasSize"`
}

var errTooLarge = fmt.Errorf("canvas size above %d", MaxCanvasSize)

func (r iconRequest) spec() (compose.IconSpec, error) {
	s := compose.IconSpec{
		Badge:          r.Badge,
		BadgeIsImage:   r.BadgeIsImage,
		GradientColors: r.GradientColors,
		Artwork:        r.Artwork,
		ArtworkZoom:    DefaultZoom,
		CanvasSize:     DefaultSize,
	}
	if r.ArtworkZoom != nil {
		s.ArtworkZoom = *r.ArtworkZoom
	}
	if r.CanvasSize != nil {
		s.CanvasSize = *r.CanvasSize
	}
	if s.CanvasSize > MaxCanvasSize {
		return s, errTooLarge
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	for _, c := range s.GradientColors {
		if _, err := gradient.ParseColor(c); err != nil {
			return s, err
		}
	}
	return s, nil
}

func bindSpec(c *gin.Context) (compose.IconSpec, bool) {
	var req iconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return compose.IconSpec{}, false
	}
	spec, err := req.spec()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return compose.IconSpec{}, false
	}
	return spec, true
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) presetsHandler(c *gin.Context) {
	out := presets.Filter(s.presets, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"count": len(out), "presets": out})
}

func (s *Server) renderHandler(c *gin.Context) {
	spec, ok := bindSpec(c)
	if !ok {
		return
	}
	res, err := s.renderer.Compose(c.Request.Context(), spec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": res.DataURI, "size": res.Size()})
}

func (s *Server) exportHandler(c *gin.Context) {
	spec, ok := bindSpec(c)
	if !ok {
		return
	}
	f, err := s.exporter.Export(c.Request.Context(), spec, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	sendFile(c, f)
}

func (s *Server) previewUpdateHandler(c *gin.Context) {
	spec, ok := bindSpec(c)
	if !ok {
		return
	}
	tok, err := s.preview.Update(c.Request.Context(), spec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"token": tok})
}

func (s *Server) previewHandler(c *gin.Context) {
	p := s.preview.Snapshot()
	body := gin.H{
		"isRendering": p.Rendering,
		"token":       p.Token,
		"latest":      p.Latest,
		"image":       nil,
	}
	if p.Result != nil {
		body["image"] = p.Result.DataURI
	}
	c.JSON(http.StatusOK, body)
}

// previewDownloadHandler exports the spec behind the latest published
// preview at the canonical size.
func (s *Server) previewDownloadHandler(c *gin.Context) {
	p := s.preview.Snapshot()
	if p.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no preview rendered yet"})
		return
	}
	f, err := s.exporter.Export(c.Request.Context(), p.Result.Spec, p.Result)
	if err != nil {
		s.fail(c, err)
		return
	}
	sendFile(c, f)
}

func sendFile(c *gin.Context, f *export.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, compose.ErrNoColors),
		errors.Is(err, compose.ErrInvalidSize),
		errors.Is(err, compose.ErrInvalidZoom),
		errors.Is(err, gradient.ErrBadColor):
		status = http.StatusBadRequest
	case errors.Is(err, scheduler.ErrStopped):
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
