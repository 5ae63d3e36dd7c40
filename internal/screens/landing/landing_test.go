package landing

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/strokerisk/strokerisk/internal/screen"
)

type continueMsg struct{}

func newTestLanding() (*LandingScreen, *int) {
	callCount := 0
	onContinue := func() tea.Cmd {
		callCount++
		return func() tea.Msg { return continueMsg{} }
	}
	return New(onContinue), &callCount
}

func sendTicks(l *LandingScreen, n int) {
	var s screen.Screen = l
	for i := 0; i < n; i++ {
		s, _ = s.Update(tickMsg(time.Now()))
	}
}

func TestPhaseTransitions(t *testing.T) {
	l, _ := newTestLanding()

	if strings.Contains(l.View(100, 30), "Know your stroke risk") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(l, 5)
	if l.elapsed != 500*time.Millisecond {
		t.Errorf("expected elapsed 500ms, got %v", l.elapsed)
	}

	sendTicks(l, 10)
	if !strings.Contains(l.View(100, 30), "Know your stroke risk") {
		t.Error("tagline should be visible after phase 2")
	}
}

func TestKeypressDuringAnimationContinues(t *testing.T) {
	l, callCount := newTestLanding()
	sendTicks(l, 3)

	_, cmd := l.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should continue")
	}
	if _, ok := cmd().(continueMsg); !ok {
		t.Fatalf("expected continueMsg, got %T", cmd())
	}
	if *callCount != 1 {
		t.Errorf("onContinue should be called once, got %d", *callCount)
	}
}

func TestNoAutoTransition(t *testing.T) {
	l, callCount := newTestLanding()

	sendTicks(l, 45)
	if *callCount != 0 {
		t.Errorf("onContinue should not run without keypress, got %d", *callCount)
	}
	if l.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, l.elapsed)
	}
}

func TestContinueOnlyOnce(t *testing.T) {
	l, callCount := newTestLanding()

	l.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := l.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("onContinue should be called exactly once, got %d", *callCount)
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "S T R O K E") {
		t.Error("expected compact banner for narrow terminals")
	}
}
