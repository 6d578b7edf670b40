package keyboard

// HandFingerMap is a dense table over every (hand, finger) combination.
type HandFingerMap[T any] struct {
	values [len(Hands)][len(Fingers)]T
	def    T
}

// NewHandFingerMap returns a table where every combination holds def.
func NewHandFingerMap[T any](def T) HandFingerMap[T] {
	m := HandFingerMap[T]{def: def}
	for h := range m.values {
		for f := range m.values[h] {
			m.values[h][f] = def
		}
	}
	return m
}

// HandFingerMapFrom builds a table from a sparse map, filling gaps with def.
func HandFingerMapFrom[T any](src map[Hand]map[Finger]T, def T) HandFingerMap[T] {
	m := NewHandFingerMap(def)
	for h, fingers := range src {
		for f, v := range fingers {
			m.Set(h, f, v)
		}
	}
	return m
}

// Get returns the value for the combination, or the default for values outside the domain.
func (m HandFingerMap[T]) Get(h Hand, f Finger) T {
	if !h.valid() || !f.valid() {
		return m.def
	}
	return m.values[h][f]
}

// Set overwrites the value for the combination. Values outside the domain are ignored.
func (m *HandFingerMap[T]) Set(h Hand, f Finger, v T) {
	if !h.valid() || !f.valid() {
		return
	}
	m.values[h][f] = v
}

// FingerMap is a dense table over every finger.
type FingerMap[T any] struct {
	values [len(Fingers)]T
	def    T
}

// NewFingerMap returns a table where every finger holds def.
func NewFingerMap[T any](def T) FingerMap[T] {
	m := FingerMap[T]{def: def}
	for f := range m.values {
		m.values[f] = def
	}
	return m
}

// FingerMapFrom builds a table from a sparse map, filling gaps with def.
func FingerMapFrom[T any](src map[Finger]T, def T) FingerMap[T] {
	m := NewFingerMap(def)
	for f, v := range src {
		m.Set(f, v)
	}
	return m
}

// Get returns the value for the finger, or the default for values outside the domain.
func (m FingerMap[T]) Get(f Finger) T {
	if !f.valid() {
		return m.def
	}
	return m.values[f]
}

// Set overwrites the value for the finger. Values outside the domain are ignored.
func (m *FingerMap[T]) Set(f Finger, v T) {
	if !f.valid() {
		return
	}
	m.values[f] = v
}
