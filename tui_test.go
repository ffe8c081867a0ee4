package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"keychord/config"
	"keychord/key"
)

func testModel(t *testing.T) tuiModel {
	t.Helper()
	compiled, err := config.Default().Compile()
	if err != nil {
		t.Fatal(err)
	}
	m := newTUIModel("fake", compiled)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(tuiModel)
}

func update(m tuiModel, msgs ...tea.Msg) tuiModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tuiModel)
	}
	return m
}

func TestTUIModelRows(t *testing.T) {
	m := testModel(t)
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}
	if r := m.row("capture-menu"); r == nil || r.total != 2 {
		t.Fatalf("capture-menu row = %+v", r)
	}
	if r := m.row("back"); r == nil || r.total != 1 {
		t.Fatalf("back row = %+v", r)
	}
}

func TestTUIModelProgressAndMatch(t *testing.T) {
	m := testModel(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	m = update(m, ProgressMsg{Name: "capture-menu", Step: 1, Total: 2})
	if r := m.row("capture-menu"); r.step != 1 {
		t.Fatalf("step = %d, want 1", r.step)
	}
	if !strings.Contains(m.View(), "[1/2]") {
		t.Error("view does not show sequence progress")
	}

	m = update(m, MatchMsg{Name: "capture-menu", At: at})
	r := m.row("capture-menu")
	if r.step != 0 || r.count != 1 {
		t.Fatalf("after match step = %d, count = %d", r.step, r.count)
	}
	if m.matches != 1 || len(m.history) != 1 {
		t.Fatalf("matches = %d, history = %d", m.matches, len(m.history))
	}
	if !strings.Contains(m.View(), "03:04:05.000  capture-menu") {
		t.Error("view does not list the match")
	}
}

func TestTUIModelReset(t *testing.T) {
	m := testModel(t)
	m = update(m,
		ProgressMsg{Name: "capture-menu", Step: 1, Total: 2},
		ResetMsg{Name: "capture-menu"},
		ResetMsg{Name: "unknown"})
	if r := m.row("capture-menu"); r.step != 0 {
		t.Errorf("step after reset = %d, want 0", r.step)
	}
}

func TestTUIModelHistoryBounded(t *testing.T) {
	m := testModel(t)
	for i := 0; i < matchHistory+3; i++ {
		m = update(m, MatchMsg{Name: fmt.Sprintf("m%d", i), At: time.Now()})
	}
	if len(m.history) != matchHistory {
		t.Fatalf("history = %d, want %d", len(m.history), matchHistory)
	}
	if m.history[0].Name != fmt.Sprintf("m%d", matchHistory+2) {
		t.Errorf("newest entry = %s", m.history[0].Name)
	}
	if m.matches != matchHistory+3 {
		t.Errorf("matches = %d", m.matches)
	}
}

func TestTUIModelHeld(t *testing.T) {
	m := testModel(t)
	if !strings.Contains(m.View(), "none") {
		t.Error("view should show no held keys")
	}
	m = update(m, HeldMsg{Keys: []key.Key{key.RightShift, key.Backspace}})
	if !strings.Contains(m.View(), key.FormatCombo(m.held)) {
		t.Error("view does not show held keys")
	}
}

func TestTUIModelQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestTUIModelLoading(t *testing.T) {
	compiled, _ := config.Default().Compile()
	if got := newTUIModel("fake", compiled).View(); got != "Loading..." {
		t.Errorf("View before size = %q", got)
	}
}

func TestTUIModelStepTotalFromMatcher(t *testing.T) {
	cfg := &config.Config{Bindings: []config.Binding{
		{Name: "pair", Keys: "f4, f5"},
		{Name: "either", Keys: "f3 | f1, f2, f6"},
		{Name: "chord", Keys: "ctrl + k"},
	}}
	compiled, err := cfg.Compile()
	if err != nil {
		t.Fatal(err)
	}
	m := newTUIModel("fake", compiled)
	for name, want := range map[string]int{"pair": 2, "either": 3, "chord": 1} {
		if r := m.row(name); r == nil || r.total != want {
			t.Errorf("%s row = %+v, want total %d", name, r, want)
		}
	}
}
