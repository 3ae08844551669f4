package app

import (
	"image"
	"log/slog"

	"github.com/soocke/anim-scrub-go/config"
	"github.com/soocke/anim-scrub-go/domain/compose"
	"github.com/soocke/anim-scrub-go/domain/frame"
	"github.com/soocke/anim-scrub-go/domain/playback"
	"github.com/soocke/anim-scrub-go/domain/seek"
	"github.com/soocke/anim-scrub-go/ui/model"
	"github.com/soocke/anim-scrub-go/ui/presenter"
)

// Container assembles models, services and presenters around one loaded
// asset. Components tied to the asset (store, cache, sequencer) are rebuilt
// by ReplaceAsset; the previous cache's buffers are released first so
// snapshots never outlive their frame store.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Store     *frame.Store
	Cache     *seek.Cache
	Sequencer *playback.Sequencer

	Player   *model.PlayerModel
	Timeline *model.TimelineModel

	Transport *presenter.TransportPresenter
	Frame     *presenter.FramePresenter
	Loop      *presenter.Loop

	trimView presenter.TransportView
}

// BuildContainer constructs all components for the given store. Views are
// resolved by the app wrapper; the headless app supplies logging views.
func BuildContainer(cfg *config.Config, logger *slog.Logger, store *frame.Store, view presenter.FrameView, trimView presenter.TransportView) *Container {
	c := &Container{Config: cfg, Logger: logger, trimView: trimView}
	c.Player = &model.PlayerModel{}
	c.Frame = presenter.NewFramePresenter(view)
	c.Loop = presenter.NewLoop(c.Frame, nil)
	c.wireAsset(store)
	return c
}

// wireAsset builds the asset-scoped components and connects them to the
// long-lived models and presenters.
func (c *Container) wireAsset(store *frame.Store) {
	c.Store = store
	c.Cache = seek.NewCache(store, c.Logger, c.Config.CheckpointInterval, c.Config.PinnedSnapshotCap)
	c.Sequencer = playback.NewSequencer(store, c.Cache, c.Config, c.Logger)
	c.Timeline = model.NewTimelineModel(store.Len())
	c.Transport = presenter.NewTransportPresenter(c.Player, c.Sequencer, c.trimView)
	c.Sequencer.AddSink(func(index int, canvas *image.RGBA) {
		c.Timeline.OnFrame(index)
		// The sink canvas is recycled after fan-out; hand the presenter
		// its own copy.
		c.Frame.OnFrame(index, compose.CloneCanvas(canvas))
	})
	c.Sequencer.AddStateListener(func(prev, next playback.State) {
		c.Player.SetPlaying(next == playback.StatePlaying)
	})
}

// ReplaceAsset tears down the asset-scoped components and rebuilds them for
// a new store.
func (c *Container) ReplaceAsset(store *frame.Store) {
	c.Close()
	c.Player.SetPlaying(false)
	c.wireAsset(store)
}

// Close releases everything owned by the asset-scoped components.
func (c *Container) Close() {
	if c.Sequencer != nil {
		c.Sequencer.Pause()
		c.Sequencer.Close()
		c.Sequencer = nil
	}
	if c.Cache != nil {
		c.Cache.Release()
		c.Cache = nil
	}
}
