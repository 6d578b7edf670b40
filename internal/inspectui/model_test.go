package inspectui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keycost/internal/corpus"
	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/metrics"
)

func testEntries(t *testing.T) []Entry {
	t.Helper()
	var ms []evaluation.Weighted
	for _, kind := range []string{metrics.KindSvalFingerRepeats, metrics.KindSvalMovementPattern} {
		m, err := metrics.NewDefault(kind)
		if err != nil {
			t.Fatalf("metric: %v", err)
		}
		ms = append(ms, evaluation.Weighted{Kind: kind, Metric: m, Weight: 1})
	}
	ev := evaluation.New(ms, 20)
	c, err := corpus.FromText("abcde edcba abba cab")
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	var entries []Entry
	for _, symbols := range []string{"abcde", "edcba"} {
		l, err := keyboard.NewLayout(symbols, keyboard.Svalboard(), symbols)
		if err != nil {
			t.Fatalf("layout: %v", err)
		}
		entries = append(entries, Entry{Layout: l, Result: ev.Evaluate(l, c)})
	}
	return entries
}

func send(m *Model, msg tea.Msg) {
	m.Update(msg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsCardsAndKeymap(t *testing.T) {
	m := NewModel(testEntries(t))
	send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.View()
	for _, want := range []string{"Overview", "Finger Repeats (Svalboard)", "Total", "Keymap", "Layout 1/2: abcde"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if len(strings.Split(out, "\n")) != 40 {
		t.Fatalf("expected view to fill the window height")
	}
}

func TestNavigateMetricsAndLayouts(t *testing.T) {
	m := NewModel(testEntries(t))
	send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	send(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != 1 {
		t.Fatalf("expected first metric tab, got %d", m.activeTab)
	}
	if len(m.worst.Rows()) == 0 {
		t.Fatalf("expected worst bigrams for the finger repeat metric")
	}

	send(m, tea.KeyMsg{Type: tea.KeyLeft})
	send(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != len(m.tabs)-1 {
		t.Fatalf("expected wrap to the last tab, got %d", m.activeTab)
	}

	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != 1 || !strings.Contains(m.View(), "Layout 2/2: edcba") {
		t.Fatalf("expected second layout selected")
	}
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != 0 {
		t.Fatalf("expected layout selection to wrap, got %d", m.current)
	}
}

func TestFilterWorstBigrams(t *testing.T) {
	m := NewModel(testEntries(t))
	send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	send(m, tea.KeyMsg{Type: tea.KeyRight})
	before := len(m.worst.Rows())

	send(m, runes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	send(m, runes("zz"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || m.filter != "zz" {
		t.Fatalf("expected filter applied, got %q (mode %v)", m.filter, m.filterMode)
	}
	if len(m.worst.Rows()) != 0 || before == 0 {
		t.Fatalf("expected filter to hide all rows, before=%d after=%d", before, len(m.worst.Rows()))
	}
	if !strings.Contains(m.View(), "No costly bigrams.") {
		t.Fatalf("expected empty table message")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(testEntries(t))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestEmptyModel(t *testing.T) {
	m := NewModel(nil)
	send(m, tea.WindowSizeMsg{Width: 60, Height: 10})
	if !strings.Contains(m.View(), "No layouts") {
		t.Fatalf("expected empty state")
	}
}
