package grid

// Symbol is the display value of one cell.
type Symbol uint8

const (
	SymbolEmpty Symbol = iota
	SymbolWall
	SymbolCost1
	SymbolCost2
	SymbolCost3
	SymbolCost4
	SymbolStart
	SymbolGoal
	SymbolPath
)

var symbolText = [...]string{
	SymbolEmpty: "   ",
	SymbolWall:  " # ",
	SymbolCost1: " . ",
	SymbolCost2: " , ",
	SymbolCost3: " : ",
	SymbolCost4: " ; ",
	SymbolStart: " S ",
	SymbolGoal:  " G ",
	SymbolPath:  " O ",
}

// String returns the three-column printable form used by text renderers.
func (s Symbol) String() string {
	if int(s) < len(symbolText) {
		return symbolText[s]
	}
	return " ? "
}

// Rune is the single-character form of the symbol.
func (s Symbol) Rune() rune {
	return rune(s.String()[1])
}

// MarshalText encodes the symbol as its trimmed printable form.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte{s.String()[1]}, nil
}

// SymbolForCost maps a cell cost to its resting display symbol. Costs outside
// the four tiers display as empty.
func SymbolForCost(c float64) Symbol {
	switch c {
	case Blocked:
		return SymbolWall
	case 1:
		return SymbolCost1
	case 2:
		return SymbolCost2
	case 3:
		return SymbolCost3
	case 4:
		return SymbolCost4
	}
	return SymbolEmpty
}
