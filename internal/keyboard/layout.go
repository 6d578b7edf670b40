package keyboard

import (
	"fmt"
	"unicode"
)

// BlankSymbol marks a key left unassigned in a layout string.
const BlankSymbol = '_'

// Keyboard is an ordered set of physical keys.
type Keyboard struct {
	Name string
	Keys []Key
	// ShiftKey is the index of the key that reaches the upper-case layer, or -1.
	ShiftKey int
}

// Layout assigns symbols to the keys of a keyboard.
type Layout struct {
	name     string
	symbols  string
	keyboard *Keyboard
	keys     []LayerKey
	bySymbol map[rune]int
	shift    int
}

// NewLayout assigns the runes of symbols to the keyboard keys in order.
// Letters also get an upper-case symbol on layer 1, reached by holding the shift key.
func NewLayout(name string, kb *Keyboard, symbols string) (*Layout, error) {
	if kb == nil {
		return nil, fmt.Errorf("keyboard is required")
	}
	runes := []rune(symbols)
	if len(runes) > len(kb.Keys) {
		return nil, fmt.Errorf("layout %q has %d symbols but keyboard %q has %d keys", name, len(runes), kb.Name, len(kb.Keys))
	}
	if kb.ShiftKey >= len(kb.Keys) {
		return nil, fmt.Errorf("shift key index %d out of range", kb.ShiftKey)
	}
	l := &Layout{
		name:     name,
		symbols:  symbols,
		keyboard: kb,
		bySymbol: make(map[rune]int, 2*len(runes)),
		shift:    -1,
	}
	if kb.ShiftKey >= 0 {
		if kb.ShiftKey < len(runes) && runes[kb.ShiftKey] != BlankSymbol {
			return nil, fmt.Errorf("shift key %d is assigned symbol %q", kb.ShiftKey, runes[kb.ShiftKey])
		}
		l.shift = len(l.keys)
		l.keys = append(l.keys, LayerKey{
			Key:      kb.Keys[kb.ShiftKey],
			Index:    kb.ShiftKey,
			Layer:    0,
			Modifier: ModifierHold,
		})
	}
	for i, r := range runes {
		if r == BlankSymbol {
			continue
		}
		if err := l.add(LayerKey{Key: kb.Keys[i], Index: i, Layer: 0, Symbol: r}); err != nil {
			return nil, err
		}
	}
	if l.shift < 0 {
		return l, nil
	}
	for i, r := range runes {
		upper := unicode.ToUpper(r)
		if r == BlankSymbol || upper == r {
			continue
		}
		if _, taken := l.bySymbol[upper]; taken {
			continue
		}
		if err := l.add(LayerKey{Key: kb.Keys[i], Index: i, Layer: 1, Symbol: upper}); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Layout) add(lk LayerKey) error {
	if _, ok := l.bySymbol[lk.Symbol]; ok {
		return fmt.Errorf("layout %q assigns symbol %q twice", l.name, lk.Symbol)
	}
	l.bySymbol[lk.Symbol] = len(l.keys)
	l.keys = append(l.keys, lk)
	return nil
}

// Name returns the layout name.
func (l *Layout) Name() string {
	return l.name
}

// Symbols returns the layout string the layout was built from.
func (l *Layout) Symbols() string {
	return l.symbols
}

// Keyboard returns the keyboard the layout is assigned to.
func (l *Layout) Keyboard() *Keyboard {
	return l.keyboard
}

// Keys returns every layer key of the layout, modifiers included.
func (l *Layout) Keys() []LayerKey {
	return l.keys
}

// Lookup returns the layer key that emits the symbol.
func (l *Layout) Lookup(symbol rune) (*LayerKey, bool) {
	idx, ok := l.bySymbol[symbol]
	if !ok {
		return nil, false
	}
	return &l.keys[idx], true
}

// Modifier returns the key that must be held to reach the layer, if any.
func (l *Layout) Modifier(layer int) (*LayerKey, bool) {
	if layer == 0 || l.shift < 0 {
		return nil, false
	}
	return &l.keys[l.shift], true
}

// Sequence returns the keys pressed to emit symbol: the layer modifier first, if any, then the key itself.
func (l *Layout) Sequence(symbol rune) ([]*LayerKey, bool) {
	lk, ok := l.Lookup(symbol)
	if !ok {
		return nil, false
	}
	if mod, ok := l.Modifier(lk.Layer); ok {
		return []*LayerKey{mod, lk}, true
	}
	return []*LayerKey{lk}, true
}
