package risk

import "math"

// Rand is the source of random draws for tick distances and cash targets.
// *math/rand.Rand satisfies it; tests inject a fixed-seed source and assert
// exact outputs.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// SizeInputs are the parameters of one sizing decision.
type SizeInputs struct {
	TPTicksMin int
	TPTicksMax int
	SLTicksMin int
	SLTicksMax int

	TPCashMin float64
	TPCashMax float64
	SLCash    float64

	TickValue  float64 // account-currency value of one tick for 1.0 lot
	VolumeStep float64
	VolumeMin  float64
	VolumeMax  float64
}

// SizeResult carries the drawn tick distances and the lot size.
type SizeResult struct {
	TPTicks int
	SLTicks int
	TPCash  float64
	Lots    float64
}

// Size draws tp/sl tick distances and a take-profit cash target, then
// returns the lot size bound by both cash constraints:
//
//	lots = min(tpCash/(tpTicks*tickValue), slCash/(slTicks*tickValue))
//
// floored to the volume step and clamped to [VolumeMin, VolumeMax]. The
// stop-loss term is the binding risk constraint: the position can never
// lose more than SLCash (within one step of rounding) whatever distances
// were drawn. A non-positive tick value falls back to the minimum volume.
func Size(in SizeInputs, rng Rand) SizeResult {
	res := SizeResult{
		TPTicks: drawTicks(rng, in.TPTicksMin, in.TPTicksMax),
		SLTicks: drawTicks(rng, in.SLTicksMin, in.SLTicksMax),
	}
	res.TPCash = in.TPCashMin
	if in.TPCashMax > in.TPCashMin {
		res.TPCash += rng.Float64() * (in.TPCashMax - in.TPCashMin)
	}

	if in.TickValue <= 0 {
		res.Lots = in.VolumeMin
		return res
	}

	lotFromTP := res.TPCash / (float64(res.TPTicks) * in.TickValue)
	lotFromSL := in.SLCash / (float64(res.SLTicks) * in.TickValue)
	res.Lots = RoundVolume(math.Min(lotFromTP, lotFromSL), in.VolumeStep, in.VolumeMin, in.VolumeMax)
	return res
}

func drawTicks(rng Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// RoundVolume floors vol to the step grid and clamps it to [vmin, vmax].
func RoundVolume(vol, step, vmin, vmax float64) float64 {
	if step > 0 {
		steps := math.Floor(vol/step + 1e-9)
		vol = steps * step
	}
	return math.Max(vmin, math.Min(vmax, vol))
}
