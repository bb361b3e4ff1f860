package game

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func segs(probs ...float64) []Segment {
	out := make([]Segment, len(probs))
	for i, p := range probs {
		out[i] = Segment{
			Position:    i,
			Multiplier:  decimal.NewFromInt(int64(i)),
			Probability: decimal.NewFromFloat(p),
			Active:      true,
		}
	}
	return out
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name    string
		probs   []float64
		wantErr bool
	}{
		{"launch wheel", []float64{0.45, 0.25, 0.15, 0.08, 0.04, 0.03}, false},
		{"sum too high", []float64{0.45, 0.25, 0.15, 0.08, 0.04, 0.05}, true},
		{"sum too low", []float64{0.5, 0.3}, true},
		{"within tolerance", []float64{0.5, 0.4999}, false},
		{"single segment", []float64{1.0}, false},
		{"negative probability", []float64{1.2, -0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegments(segs(tt.probs...))
			if tt.wantErr {
				if !errors.Is(err, ErrConfigurationInvalid) {
					t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSegmentsIgnoresInactive(t *testing.T) {
	s := segs(0.6, 0.4, 0.9)
	s[2].Active = false
	if err := ValidateSegments(s); err != nil {
		t.Fatalf("inactive segment should not count toward the sum: %v", err)
	}

	if err := ValidateSegments([]Segment{{Probability: decimal.NewFromInt(1), Active: false}}); err == nil {
		t.Fatal("all-inactive wheel must be rejected")
	}
}

func TestResolve(t *testing.T) {
	s := segs(0.45, 0.25, 0.15, 0.08, 0.04, 0.03)

	tests := []struct {
		draw float64
		want int // expected segment position
	}{
		{0.0, 0},
		{0.44, 0},
		{0.45, 0},
		{0.46, 1},
		{0.70, 1},
		{0.71, 2},
		{0.85, 2},
		{0.93, 3},
		{0.97, 4},
		{0.99, 5},
		{0.9999, 5},
	}

	for _, tt := range tests {
		got, err := Resolve(s, tt.draw)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", tt.draw, err)
		}
		if got.Position != tt.want {
			t.Errorf("Resolve(%v) = segment %d, want %d", tt.draw, got.Position, tt.want)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	s := segs(0.45, 0.25, 0.15, 0.08, 0.04, 0.03)
	for i := 0; i < 100; i++ {
		a, err := Resolve(s, 0.37)
		if err != nil {
			t.Fatal(err)
		}
		b, _ := Resolve(s, 0.37)
		if a.Position != b.Position {
			t.Fatalf("same draw resolved to different segments: %d vs %d", a.Position, b.Position)
		}
	}
}

func TestResolveSkipsInactive(t *testing.T) {
	s := segs(0.5, 0.5, 0.2)
	s[0].Active = false
	got, err := Resolve(s, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != 1 {
		t.Errorf("draw should land on first active segment, got %d", got.Position)
	}
}

func TestResolveDriftFallback(t *testing.T) {
	// Active probabilities deliberately sum below 1 (past tolerance) to
	// model rounding drift; a draw beyond the total must land on the last
	// active segment, not error out.
	s := segs(0.5, 0.49)
	got, err := Resolve(s, 0.9999)
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != 1 {
		t.Errorf("drift fallback should pick last active segment, got %d", got.Position)
	}
}

func TestResolveRejectsBadDraw(t *testing.T) {
	s := segs(1.0)
	for _, draw := range []float64{-0.1, 1.0, 1.5} {
		if _, err := Resolve(s, draw); !errors.Is(err, ErrValidation) {
			t.Errorf("Resolve(%v) should fail validation, got %v", draw, err)
		}
	}
}

func TestDefaultSegmentsValid(t *testing.T) {
	if err := ValidateSegments(DefaultSegments()); err != nil {
		t.Fatalf("default wheel must validate: %v", err)
	}
}

func TestHouseEdge(t *testing.T) {
	// Launch wheel expected return: 0*.45 + .5*.25 + 1*.15 + 2*.08 + 5*.04 + 10*.03 = 0.935
	edge := HouseEdge(DefaultSegments())
	want := decimal.NewFromFloat(0.065)
	if !edge.Equal(want) {
		t.Errorf("house edge = %s, want %s", edge, want)
	}
}
