package viz

import (
	"bytes"
	"image/gif"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Bodies.Count = 8
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func press(m Model, key string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model), cmd
}

func tickOnce(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestModelStartsPaused(t *testing.T) {
	m := newTestModel(t)
	before := m.World().Bodies()[0].Position

	m = tickOnce(m)
	if m.frame != 0 {
		t.Errorf("paused model advanced to frame %d", m.frame)
	}
	if m.World().Bodies()[0].Position != before {
		t.Error("paused model moved a body")
	}
}

func TestModelPauseToggle(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, " ")
	if !m.running {
		t.Fatal("expected running after space")
	}
	m = tickOnce(m)
	m = tickOnce(m)
	if m.frame != 2 {
		t.Errorf("expected 2 frames, got %d", m.frame)
	}
	if len(m.energy) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.energy))
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	start := m.World().Bodies()[0].Position

	m, _ = press(m, " ")
	for range 5 {
		m = tickOnce(m)
	}
	m, _ = press(m, "r")

	if m.running {
		t.Error("reset should pause")
	}
	if m.frame != 0 || m.t != 0 {
		t.Errorf("reset left frame %d time %v", m.frame, m.t)
	}
	if got := m.World().Bodies()[0].Position; got != start {
		t.Errorf("reset did not reseed: %v != %v", got, start)
	}
}

func TestModelSubstepKeys(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "+")
	m, _ = press(m, "+")
	if got := m.World().Substeps(); got != 3 {
		t.Errorf("expected 3 substeps, got %d", got)
	}
	for range 5 {
		m, _ = press(m, "-")
	}
	if got := m.World().Substeps(); got != 1 {
		t.Errorf("substeps should not drop below 1, got %d", got)
	}
}

func TestModelSlowKey(t *testing.T) {
	m := newTestModel(t)
	v := m.World().Bodies()[0].Velocity
	m, _ = press(m, "s")
	got := m.World().Bodies()[0].Velocity
	if d := r2.Norm(r2.Sub(got, r2.Scale(0.5, v))); d > 1e-9 {
		t.Errorf("expected halved velocity, got %v from %v", got, v)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelMouseRelease(t *testing.T) {
	m := newTestModel(t)
	m.selected = 2
	next, _ := m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := next.(Model).selected; got != sim.NoExclude {
		t.Errorf("release should clear selection, got %d", got)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, " ")
	m = tickOnce(m)
	m = tickOnce(m)
	if m.View() == "" {
		t.Error("empty view")
	}
	m, _ = press(m, "?")
	if !bytes.Contains([]byte(m.View()), []byte("KEYBOARD SHORTCUTS")) {
		t.Error("help overlay missing")
	}
}

func TestModelViewShowsBucketCapacity(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bodies.Count = 8
	cfg.Physics.BucketCapacity = 3
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if got := m.World().Index().Capacity(); got != 3 {
		t.Fatalf("expected index bucket 3, got %d", got)
	}
	if !bytes.Contains([]byte(m.View()), []byte("bucket 3")) {
		t.Error("index bucket size missing from the stats panel")
	}
}

func TestShiftIndex(t *testing.T) {
	tests := []struct {
		i       int
		removed []int
		want    int
	}{
		{5, nil, 5},
		{5, []int{1, 3}, 3},
		{5, []int{5}, sim.NoExclude},
		{2, []int{3, 4}, 2},
		{sim.NoExclude, []int{0}, sim.NoExclude},
	}
	for _, tt := range tests {
		if got := shiftIndex(tt.i, tt.removed); got != tt.want {
			t.Errorf("shiftIndex(%d, %v) = %d, want %d", tt.i, tt.removed, got, tt.want)
		}
	}
}

func TestRecorder(t *testing.T) {
	m := newTestModel(t)
	r := NewRecorder(64, 48)

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != ErrNoFrames {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	r.Capture(m.World(), m.viewport.Area)
	r.Capture(m.World(), m.viewport.Area)
	if r.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Len())
	}
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("decoded %d frames", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("unexpected frame size %v", b)
	}
}
