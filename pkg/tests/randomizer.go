package tests

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	// Price returns a positive whole amount in [minimum, maximum].
	Price func(minimum, maximum int64) decimal.Decimal
}

func NewRandomizer() Randomizer {
	return NewSeededRandomizer(time.Now().Unix())
}

func NewSeededRandomizer(seed int64) Randomizer {
	random := rand.New(rand.NewSource(seed)) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Price: func(minimum, maximum int64) decimal.Decimal {
			return decimal.NewFromInt(minimum + random.Int63n(maximum-minimum+1))
		},
	}
}

// Draws is a scripted random source: it returns the given values in order
// and repeats the last one once exhausted.
type Draws struct {
	values []float64
	next   int
}

func NewDraws(values ...float64) *Draws {
	return &Draws{values: values}
}

func (d *Draws) Float64() float64 {
	if len(d.values) == 0 {
		return 0
	}

	if d.next >= len(d.values) {
		return d.values[len(d.values)-1]
	}

	v := d.values[d.next]
	d.next++

	return v
}
