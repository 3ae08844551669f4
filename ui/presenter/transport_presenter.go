package presenter

// TransportModel provides playing state access.
type TransportModel interface {
	Playing() bool
	SetPlaying(bool)
}

// TransportContract narrows what the presenter needs from the sequencer.
type TransportContract interface {
	Play()
	Pause()
}

// TransportView updates UI elements affected by play/pause toggling. Trim
// handles stay editable only while stopped so the loop window cannot shift
// mid-playback.
type TransportView interface {
	TrimEditable(bool)
}

// TransportPresenter owns presentation logic for toggling playback.
type TransportPresenter struct {
	model   TransportModel
	service TransportContract
	view    TransportView
}

func NewTransportPresenter(model TransportModel, service TransportContract, view TransportView) *TransportPresenter {
	return &TransportPresenter{model: model, service: service, view: view}
}

// Play starts playback, coordinating sequencer, model and view. Idempotent.
func (p *TransportPresenter) Play() {
	if p == nil || p.model == nil || p.service == nil || p.view == nil {
		return
	}
	if p.model.Playing() { // already playing
		return
	}
	p.service.Play()
	p.model.SetPlaying(true)
	p.view.TrimEditable(false)
}

// Pause halts playback, keeping the position. Idempotent.
func (p *TransportPresenter) Pause() {
	if p == nil || p.model == nil || p.service == nil || p.view == nil {
		return
	}
	if !p.model.Playing() { // already stopped
		return
	}
	p.service.Pause()
	p.model.SetPlaying(false)
	p.view.TrimEditable(true)
}

// Toggle flips playback state delegating to Play/Pause.
func (p *TransportPresenter) Toggle() {
	if p == nil || p.model == nil || p.service == nil || p.view == nil {
		return
	}
	if p.model.Playing() {
		p.Pause()
		return
	}
	p.Play()
}
