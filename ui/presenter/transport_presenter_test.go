package presenter

import (
	"testing"
)

type mockModel struct{ playing bool }

func (m *mockModel) Playing() bool     { return m.playing }
func (m *mockModel) SetPlaying(b bool) { m.playing = b }

type mockTransport struct{ played, paused int }

func (s *mockTransport) Play()  { s.played++ }
func (s *mockTransport) Pause() { s.paused++ }

type mockView struct {
	editableCalls int
	lastEditable  bool
}

func (v *mockView) TrimEditable(b bool) { v.editableCalls++; v.lastEditable = b }

func TestTransportPresenter_PlayPause_Idempotent(t *testing.T) {
	m := &mockModel{}
	svc := &mockTransport{}
	view := &mockView{}
	p := NewTransportPresenter(m, svc, view)

	// Play
	p.Play()
	if !m.Playing() || svc.played != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("play failed: playing=%v played=%d editableCalls=%d lastEditable=%v", m.Playing(), svc.played, view.editableCalls, view.lastEditable)
	}
	// Play again idempotent
	p.Play()
	if svc.played != 1 {
		t.Fatalf("play not idempotent: played=%d", svc.played)
	}

	// Pause
	p.Pause()
	if m.Playing() || svc.paused != 1 || !view.lastEditable || view.editableCalls != 2 {
		t.Fatalf("pause failed: playing=%v paused=%d editableCalls=%d lastEditable=%v", m.Playing(), svc.paused, view.editableCalls, view.lastEditable)
	}
	// Pause again idempotent
	p.Pause()
	if svc.paused != 1 {
		t.Fatalf("pause not idempotent: paused=%d", svc.paused)
	}
}

func TestTransportPresenter_Toggle(t *testing.T) {
	m := &mockModel{}
	svc := &mockTransport{}
	view := &mockView{}
	p := NewTransportPresenter(m, svc, view)
	p.Toggle() // play path
	if !m.Playing() || svc.played != 1 {
		t.Fatalf("toggle play failed")
	}
	p.Toggle() // pause path
	if m.Playing() || svc.paused != 1 {
		t.Fatalf("toggle pause failed")
	}
}

func TestTransportPresenter_NilSafe(t *testing.T) {
	var p *TransportPresenter
	p.Play()
	p.Pause()
	p.Toggle()
	NewTransportPresenter(nil, nil, nil).Toggle()
}
