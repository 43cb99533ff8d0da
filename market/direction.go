package market

// Direction is the side of a signal, order or position.
type Direction int

const (
	Long  Direction = 1
	Short Direction = -1
)

// Sign returns +1 for long, -1 for short. Favorable price movement for a
// position is Sign() * (price - entry).
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Short {
		return "SHORT"
	}
	return "LONG"
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Short {
		return Long
	}
	return Short
}
