package app

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/anim-scrub-go/config"
	dbg "github.com/soocke/anim-scrub-go/debug"
	"github.com/soocke/anim-scrub-go/domain/export"
	"github.com/soocke/anim-scrub-go/domain/frame"
	"github.com/soocke/anim-scrub-go/gifio"
)

const uiTick = 100 * time.Millisecond

// Options control one headless run: load an animation, optionally preview
// it for a while, optionally export a trimmed/cropped copy.
type Options struct {
	InputPath  string
	OutputPath string           // export target; empty skips export
	Trim       *frame.TrimRange // nil means full sequence
	Crop       *image.Rectangle // nil means full canvas
	PlayFor    time.Duration    // preview duration; 0 skips playback
}

// App wires the container to a headless run loop. The interactive widget
// layer is intentionally absent; views reduce to structured log output.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   Options
}

func NewApp(cfg *config.Config, logger *slog.Logger, opts Options) *App {
	return &App{cfg: cfg, logger: logger, opts: opts}
}

// logView satisfies the presenter view contracts with log output.
type logView struct{ logger *slog.Logger }

func (v logView) ShowFrame(index int, img image.Image) {
	if v.logger != nil && img != nil {
		v.logger.Debug("view.frame", "index", index, "bounds", img.Bounds().String())
	}
}

func (v logView) TrimEditable(editable bool) {
	if v.logger != nil {
		v.logger.Debug("view.trim_editable", "editable", editable)
	}
}

// Start runs the configured session. A failed load rejects the asset with
// no editor state created; a failed export leaves prior state usable.
func (a *App) Start() error {
	f, err := os.Open(a.opts.InputPath)
	if err != nil {
		return fmt.Errorf("open asset: %w", err)
	}
	store, err := gifio.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load asset: %w", err)
	}
	a.logger.Info("asset loaded",
		"asset", store.ID().String(),
		"frames", store.Len(),
		"bounds", store.Bounds().String(),
	)

	if a.cfg.Debug {
		dbg.StartMemLogger(2*time.Second, a.logger)
		dbg.StartGoroutineLogger(time.Second, a.logger)
	}

	view := logView{logger: a.logger}
	c := BuildContainer(a.cfg, a.logger, store, view, view)
	defer c.Close()

	trim := frame.FullRange(store.Len())
	if a.opts.Trim != nil {
		trim = *a.opts.Trim
		if err := c.Sequencer.SetTrim(trim); err != nil {
			return fmt.Errorf("trim: %w", err)
		}
		_ = c.Timeline.SetTrim(trim)
	}

	if a.opts.PlayFor > 0 {
		a.preview(c)
	}

	if a.opts.OutputPath != "" {
		if err := a.export(store, trim); err != nil {
			return err
		}
	}
	return nil
}

// preview plays the trim window for the configured duration, driving the
// presenter loop at the UI tick rate.
func (a *App) preview(c *Container) {
	c.Transport.Play()
	ticker := time.NewTicker(uiTick)
	defer ticker.Stop()
	deadline := time.Now().Add(a.opts.PlayFor)
	for now := range ticker.C {
		c.Loop.Tick()
		if now.After(deadline) {
			break
		}
	}
	c.Transport.Pause()
	current, _, loops := c.Timeline.Values()
	stats := c.Cache.Stats()
	a.logger.Info("preview finished",
		"position", current,
		"loops", loops,
		"composited", stats.FramesComposited,
		"checkpoints", stats.Checkpoints,
	)
}

// export runs the trim/crop pass on its own canvas and encodes the result.
func (a *App) export(store *frame.Store, trim frame.TrimRange) error {
	frames, err := export.Export(store, trim, a.opts.Crop, a.logger)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	out, err := os.Create(a.opts.OutputPath)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer out.Close()
	if err := gifio.Encode(out, frames, a.cfg.LoopCount); err != nil {
		return err
	}
	a.logger.Info("export written", "path", a.opts.OutputPath, "frames", len(frames))
	return nil
}
