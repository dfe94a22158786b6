// Package cashback computes the randomized reward credited after a recharge.
package cashback

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config is the fraction range a cashback is drawn from. Both ends lie in
// [0, 1] and LowerFraction <= UpperFraction.
type Config struct {
	LowerFraction float64
	UpperFraction float64
}

func (c Config) Validate() error {
	if c.LowerFraction < 0 || c.UpperFraction > 1 || c.LowerFraction > c.UpperFraction {
		return fmt.Errorf("invalid cashback range [%v, %v): need 0 <= lower <= upper <= 1",
			c.LowerFraction, c.UpperFraction)
	}
	return nil
}

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Result describes one cashback draw.
type Result struct {
	Fraction decimal.Decimal
	Raw      decimal.Decimal
	Awarded  decimal.Decimal
}

type Policy struct {
	cfg Config
	src Source
}

// NewPolicy validates cfg. A nil src draws from the shared math/rand source.
func NewPolicy(cfg Config, src Source) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = globalSource{}
	}
	return &Policy{cfg: cfg, src: src}, nil
}

// Compute draws f from [lower, upper), takes raw = amount*f and awards
// round(raw/100) half-up. Small recharges therefore usually earn nothing.
func (p *Policy) Compute(amount decimal.Decimal) Result {
	f := p.drawFraction()
	raw := amount.Mul(f)
	awarded := raw.Div(hundred).Round(0)
	if awarded.IsNegative() {
		awarded = decimal.Zero
	}
	return Result{Fraction: f, Raw: raw, Awarded: awarded}
}

func (p *Policy) drawFraction() decimal.Decimal {
	lower, upper := p.cfg.LowerFraction, p.cfg.UpperFraction
	if lower == upper {
		return decimal.NewFromFloat(lower)
	}
	u := p.src.Float64()
	if u < 0 {
		u = 0
	}
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	f := lower + u*(upper-lower)
	if f >= upper {
		f = math.Nextafter(upper, lower)
	}
	return decimal.NewFromFloat(f)
}

func (p *Policy) Config() Config {
	return p.cfg
}
