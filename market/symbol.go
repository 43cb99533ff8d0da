// market/symbol.go
package market

// SymbolMeta describes the contract metadata the engine needs to price,
// size and round orders for one exchange-traded symbol.
type SymbolMeta struct {
	Name       string
	Digits     int
	TickSize   float64 // minimum price increment
	TickValue  float64 // account-currency value of one tick for 1.0 lot
	VolumeStep float64
	VolumeMin  float64
	VolumeMax  float64
}

var Symbols = map[string]SymbolMeta{
	"XAUUSD": {
		Name:       "XAUUSD",
		Digits:     2,
		TickSize:   0.01,
		TickValue:  1.0,
		VolumeStep: 0.01,
		VolumeMin:  0.01,
		VolumeMax:  50.0,
	},
	"EURUSD": {
		Name:       "EURUSD",
		Digits:     5,
		TickSize:   0.00001,
		TickValue:  1.0,
		VolumeStep: 0.01,
		VolumeMin:  0.01,
		VolumeMax:  100.0,
	},
	"US500": {
		Name:       "US500",
		Digits:     1,
		TickSize:   0.1,
		TickValue:  0.5,
		VolumeStep: 0.1,
		VolumeMin:  0.1,
		VolumeMax:  100.0,
	},
}
