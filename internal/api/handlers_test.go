package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cartridgeicon/internal/compose"
	"github.com/youruser/cartridgeicon/internal/export"
	imagepkg "github.com/youruser/cartridgeicon/internal/image"
	"github.com/youruser/cartridgeicon/internal/presets"
	"github.com/youruser/cartridgeicon/internal/scheduler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *scheduler.Scheduler) {
	t.Helper()
	comp := compose.New(imagepkg.NewLoader())
	sched := scheduler.New(comp.Compose, scheduler.WithDelay(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	ps := []presets.Preset{{Name: "Game Boy", Key: "gb", GradientColors: []string{"#000"}}, presets.Custom}
	srv := NewServer(comp, export.New(comp), sched, ps, zap.NewNop())
	return NewRouter(srv, zap.NewNop()), sched
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("health = %d %s", w.Code, w.Body)
	}
}

func TestPresets(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/presets?q=boy", "")
	var body struct {
		Count   int              `json:"count"`
		Presets []presets.Preset `json:"presets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || body.Presets[0].Key != "gb" {
		t.Errorf("presets = %+v", body)
	}
}

func TestRender(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/icon/render",
		`{"badge":"G","gradientColors":["#9333ea","#06b6d4"],"canvasSize":128}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var body struct {
		Image string `json:"image"`
		Size  int    `json:"size"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Size != 128 || !strings.HasPrefix(body.Image, "data:image/png;base64,") {
		t.Errorf("render body size=%d image=%.40s", body.Size, body.Image)
	}
}

func TestRenderBadRequests(t *testing.T) {
	r, _ := newTestRouter(t)
	for name, body := range map[string]string{
		"not json":  `{`,
		"no colors": `{"gradientColors":[]}`,
		"bad color": `{"gradientColors":["#zzzzzz"]}`,
		"zero zoom": `{"gradientColors":["#fff"],"artworkZoom":0}`,
		"too large": `{"gradientColors":["#fff"],"canvasSize":100000}`,
	} {
		if w := do(r, http.MethodPost, "/api/icon/render", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", name, w.Code)
		}
	}
}

func TestExportIsCanonical(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/icon/export", `{"gradientColors":["#9333ea"],"canvasSize":200}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "game-cartridge-icon.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 || cfg.Height != 1024 {
		t.Errorf("export %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPreviewSession(t *testing.T) {
	r, sched := newTestRouter(t)

	if w := do(r, http.MethodGet, "/api/preview/download", ""); w.Code != http.StatusNotFound {
		t.Errorf("download before render: %d", w.Code)
	}

	for _, zoom := range []string{"1", "1.5", "2"} {
		w := do(r, http.MethodPost, "/api/preview",
			`{"badge":"G","gradientColors":["#9333ea","#06b6d4"],"canvasSize":64,"artworkZoom":`+zoom+`}`)
		if w.Code != http.StatusAccepted {
			t.Fatalf("update status %d: %s", w.Code, w.Body)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for sched.Snapshot().Published == 0 || sched.Snapshot().Rendering {
		if time.Now().After(deadline) {
			t.Fatal("preview never published")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w := do(r, http.MethodGet, "/api/preview", "")
	var body struct {
		Image       *string `json:"image"`
		IsRendering bool    `json:"isRendering"`
		Token       uint64  `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Image == nil || body.IsRendering || body.Token != 3 {
		t.Errorf("preview = %+v", body)
	}
	if p := sched.Snapshot(); p.Result.Spec.ArtworkZoom != 2 {
		t.Errorf("published zoom %v, want last input", p.Result.Spec.ArtworkZoom)
	}

	w = do(r, http.MethodGet, "/api/preview/download", "")
	if w.Code != http.StatusOK {
		t.Fatalf("download status %d", w.Code)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 {
		t.Errorf("download width %d, want canonical 1024", cfg.Width)
	}
}
