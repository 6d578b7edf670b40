package keyboard

import "testing"

func TestFingerDistance(t *testing.T) {
	if got := Index.Distance(Pinky); got != 3 {
		t.Fatalf("expected index-pinky distance 3, got %d", got)
	}
	if got := Pinky.Distance(Index); got != 3 {
		t.Fatalf("expected distance to be symmetric, got %d", got)
	}
	if got := Index.Distance(Middle); got != 1 {
		t.Fatalf("expected index-middle distance 1, got %d", got)
	}
	if got := Ring.Distance(Ring); got != 0 {
		t.Fatalf("expected zero distance for same finger, got %d", got)
	}
}

func TestParseHandAndFinger(t *testing.T) {
	h, err := ParseHand(" right ")
	if err != nil || h != Right {
		t.Fatalf("expected Right, got %v (%v)", h, err)
	}
	if _, err := ParseHand("middle"); err == nil {
		t.Fatalf("expected error for unknown hand")
	}
	f, err := ParseFinger("PINKY")
	if err != nil || f != Pinky {
		t.Fatalf("expected Pinky, got %v (%v)", f, err)
	}
	if _, err := ParseFinger("toe"); err == nil {
		t.Fatalf("expected error for unknown finger")
	}
}

func TestHandFingerMapDefaults(t *testing.T) {
	m := HandFingerMapFrom(map[Hand]map[Finger]float64{
		Left: {Index: 0.5},
	}, 1.0)
	if got := m.Get(Left, Index); got != 0.5 {
		t.Fatalf("expected configured value 0.5, got %v", got)
	}
	for _, h := range Hands {
		for _, f := range Fingers {
			if h == Left && f == Index {
				continue
			}
			if got := m.Get(h, f); got != 1.0 {
				t.Fatalf("expected default for %v/%v, got %v", h, f, got)
			}
		}
	}
	if got := m.Get(Hand(7), Finger(-1)); got != 1.0 {
		t.Fatalf("expected default outside the domain, got %v", got)
	}
}

func TestHandFingerMapLastWriteWins(t *testing.T) {
	m := NewHandFingerMap(0.0)
	m.Set(Right, Ring, 2)
	m.Set(Right, Ring, 3)
	if got := m.Get(Right, Ring); got != 3 {
		t.Fatalf("expected last write to win, got %v", got)
	}
	m.Set(Hand(9), Ring, 5)
	if got := m.Get(Hand(9), Ring); got != 0 {
		t.Fatalf("expected out-of-domain set to be ignored, got %v", got)
	}
}

func TestFingerMap(t *testing.T) {
	m := FingerMapFrom(map[Finger]float64{Pinky: 1.5, Thumb: 0.2}, 1.0)
	if m.Get(Pinky) != 1.5 || m.Get(Thumb) != 0.2 || m.Get(Middle) != 1.0 {
		t.Fatalf("unexpected finger map values: %v %v %v", m.Get(Pinky), m.Get(Thumb), m.Get(Middle))
	}
	if m.Get(Finger(42)) != 1.0 {
		t.Fatalf("expected default outside the domain")
	}
}

func TestSvalboardGeometry(t *testing.T) {
	kb := Svalboard()
	if len(kb.Keys) != 52 {
		t.Fatalf("expected 52 keys, got %d", len(kb.Keys))
	}
	if kb.Keys[kb.ShiftKey].Finger != Thumb || kb.Keys[kb.ShiftKey].Hand != Left {
		t.Fatalf("expected shift on a left thumb key, got %+v", kb.Keys[kb.ShiftKey])
	}
	// Left index cluster: center, north, south, east, west.
	center := kb.Keys[15]
	if center.Position != (Position{Col: 11, Row: 2}) || center.Finger != Index || center.Hand != Left {
		t.Fatalf("unexpected left index center: %+v", center)
	}
	if kb.Keys[18].Unbalancing.X >= kb.Keys[19].Unbalancing.X {
		t.Fatalf("expected inward (east) key on the left hand to be less unbalancing than outward")
	}
	if kb.Keys[23].Unbalancing.X <= kb.Keys[24].Unbalancing.X {
		t.Fatalf("expected inward (west) key on the right hand to be less unbalancing than outward")
	}
}

func TestNewLayoutAssignsSymbolsAndShiftLayer(t *testing.T) {
	kb := Svalboard()
	l, err := NewLayout("test", kb, "ab_c")
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	a, ok := l.Lookup('a')
	if !ok || a.Index != 0 || a.Layer != 0 {
		t.Fatalf("unexpected key for a: %+v", a)
	}
	c, ok := l.Lookup('c')
	if !ok || c.Index != 3 {
		t.Fatalf("expected c on key 3, got %+v", c)
	}
	if _, ok := l.Lookup('_'); ok {
		t.Fatalf("blank must not be assigned")
	}
	seq, ok := l.Sequence('B')
	if !ok || len(seq) != 2 {
		t.Fatalf("expected shift+b sequence, got %v", seq)
	}
	if !seq[0].IsModifier() || seq[1].Index != 1 || seq[1].Layer != 1 {
		t.Fatalf("unexpected sequence: %+v %+v", seq[0], seq[1])
	}
	if !seq[0].Equal(seq[0]) || seq[0].Equal(seq[1]) {
		t.Fatalf("unexpected equality results")
	}
}

func TestNewLayoutErrors(t *testing.T) {
	kb := Svalboard()
	if _, err := NewLayout("dup", kb, "aa"); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
	long := make([]rune, len(kb.Keys)+1)
	for i := range long {
		long[i] = BlankSymbol
	}
	if _, err := NewLayout("long", kb, string(long)); err == nil {
		t.Fatalf("expected too-long layout error")
	}
	tooFar := make([]rune, kb.ShiftKey+1)
	for i := range tooFar {
		tooFar[i] = BlankSymbol
	}
	tooFar[kb.ShiftKey] = 'x'
	if _, err := NewLayout("shift", kb, string(tooFar)); err == nil {
		t.Fatalf("expected error when the shift key carries a symbol")
	}
}
