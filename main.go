package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/soocke/anim-scrub-go/app"
	"github.com/soocke/anim-scrub-go/config"
	"github.com/soocke/anim-scrub-go/domain/frame"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "config file path (default: XDG config dir)")
		inPath    = flag.String("in", "", "animated GIF to load")
		outPath   = flag.String("out", "", "export target path (optional)")
		trimStart = flag.Int("trim-start", -1, "first frame of the trim window")
		trimEnd   = flag.Int("trim-end", -1, "last frame of the trim window")
		cropSpec  = flag.String("crop", "", "crop rectangle as x,y,w,h (optional)")
		playFor   = flag.Duration("play", 0, "preview playback duration (e.g. 3s)")
		debugFlag = flag.Bool("debug", false, "enable debug logging and runtime stats")
	)
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, "anim-scrub", "config.json")
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: anim-scrub -in animation.gif [-out trimmed.gif] [-trim-start N -trim-end M] [-crop x,y,w,h] [-play 3s]")
		os.Exit(2)
	}

	opts := app.Options{InputPath: *inPath, OutputPath: *outPath, PlayFor: *playFor}
	if *trimStart >= 0 || *trimEnd >= 0 {
		opts.Trim = &frame.TrimRange{Start: *trimStart, End: *trimEnd}
	}
	if *cropSpec != "" {
		var x, y, w, h int
		if _, err := fmt.Sscanf(*cropSpec, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
			fmt.Fprintln(os.Stderr, "crop: expected x,y,w,h:", err)
			os.Exit(2)
		}
		r := image.Rect(x, y, x+w, y+h)
		opts.Crop = &r
	}
	if opts.OutputPath == "" && opts.PlayFor == 0 {
		opts.PlayFor = 3 * time.Second
	}

	application := app.NewApp(cfg, logger, opts)
	if err := application.Start(); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
