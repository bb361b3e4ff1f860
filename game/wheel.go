package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProbabilityTolerance is how far the active-segment probability sum may
// drift from 1.0 before the configuration is rejected.
var ProbabilityTolerance = decimal.NewFromFloat(0.001)

// Segment is one slot of the wheel. Label and Color are display-only and
// never influence settlement.
type Segment struct {
	Position    int
	Multiplier  decimal.Decimal
	Probability decimal.Decimal
	Label       string
	Color       string
	Active      bool
}

// DefaultSegments is the launch wheel: heavy on losses, thin on the 10x slot.
func DefaultSegments() []Segment {
	mk := func(pos int, mult, prob float64, label, color string) Segment {
		return Segment{
			Position:    pos,
			Multiplier:  decimal.NewFromFloat(mult),
			Probability: decimal.NewFromFloat(prob),
			Label:       label,
			Color:       color,
			Active:      true,
		}
	}
	return []Segment{
		mk(0, 0, 0.45, "0x", "#ef4444"),
		mk(1, 0.5, 0.25, "0.5x", "#f59e0b"),
		mk(2, 1, 0.15, "1x", "#10b981"),
		mk(3, 2, 0.08, "2x", "#3b82f6"),
		mk(4, 5, 0.04, "5x", "#8b5cf6"),
		mk(5, 10, 0.03, "10x", "#FFD700"),
	}
}

// ValidateSegments enforces the configuration-time invariants: at least one
// active segment, no negative multiplier or probability, and active
// probabilities summing to 1 within ProbabilityTolerance. Runs on every
// configuration load or admin update, not per draw.
func ValidateSegments(segments []Segment) error {
	sum := decimal.Zero
	active := 0
	for i, seg := range segments {
		if seg.Probability.IsNegative() {
			return fmt.Errorf("%w: segment %d has negative probability", ErrConfigurationInvalid, i)
		}
		if seg.Multiplier.IsNegative() {
			return fmt.Errorf("%w: segment %d has negative multiplier", ErrConfigurationInvalid, i)
		}
		if !seg.Active {
			continue
		}
		active++
		sum = sum.Add(seg.Probability)
	}
	if active == 0 {
		return fmt.Errorf("%w: no active segments", ErrConfigurationInvalid)
	}
	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(ProbabilityTolerance) {
		return fmt.Errorf("%w: active probabilities sum to %s, want 1", ErrConfigurationInvalid, sum)
	}
	return nil
}

// Resolve maps a uniform draw in [0,1) onto a segment by walking active
// segments in position order and returning the first whose cumulative
// probability reaches the draw. If rounding leaves the draw past the total,
// the last active segment wins; that fallback is deterministic and part of
// the contract.
func Resolve(segments []Segment, draw float64) (Segment, error) {
	if draw < 0 || draw >= 1 {
		return Segment{}, fmt.Errorf("%w: draw %v outside [0,1)", ErrValidation, draw)
	}
	d := decimal.NewFromFloat(draw)
	cumulative := decimal.Zero
	var last Segment
	found := false
	for _, seg := range segments {
		if !seg.Active {
			continue
		}
		last, found = seg, true
		cumulative = cumulative.Add(seg.Probability)
		if cumulative.GreaterThanOrEqual(d) {
			return seg, nil
		}
	}
	if !found {
		return Segment{}, fmt.Errorf("%w: no active segments", ErrConfigurationInvalid)
	}
	return last, nil
}

// HouseEdge reports 1 - expected return over the active segments.
func HouseEdge(segments []Segment) decimal.Decimal {
	expected := decimal.Zero
	for _, seg := range segments {
		if !seg.Active {
			continue
		}
		expected = expected.Add(seg.Multiplier.Mul(seg.Probability))
	}
	return decimal.NewFromInt(1).Sub(expected)
}
