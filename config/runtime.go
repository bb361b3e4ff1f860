package config

import (
	"sync/atomic"

	"luckyspin/game"
)

type snapshot struct {
	settings game.Settings
	limits   game.WithdrawalLimits
	segments []game.Segment
}

// Runtime holds the admin-configurable state behind an atomically swapped
// snapshot. Readers on the spin path never block; admin writes validate
// first and then replace the whole snapshot, so a spin can never observe a
// half-updated wheel.
type Runtime struct {
	current atomic.Pointer[snapshot]
}

func NewRuntime(settings game.Settings, limits game.WithdrawalLimits, segments []game.Segment) (*Runtime, error) {
	if err := game.ValidateSegments(segments); err != nil {
		return nil, err
	}
	r := &Runtime{}
	r.current.Store(&snapshot{settings: settings, limits: limits, segments: segments})
	return r, nil
}

func (r *Runtime) Settings() game.Settings {
	return r.current.Load().settings
}

func (r *Runtime) WithdrawalLimits() game.WithdrawalLimits {
	return r.current.Load().limits
}

// Segments returns a copy; callers may not mutate the live wheel.
func (r *Runtime) Segments() []game.Segment {
	segs := r.current.Load().segments
	out := make([]game.Segment, len(segs))
	copy(out, segs)
	return out
}

// UpdateSegments swaps in a new wheel after validating it. A wheel whose
// active probabilities do not sum to 1 is rejected outright.
func (r *Runtime) UpdateSegments(segments []game.Segment) error {
	if err := game.ValidateSegments(segments); err != nil {
		return err
	}
	old := r.current.Load()
	r.current.Store(&snapshot{settings: old.settings, limits: old.limits, segments: segments})
	return nil
}

func (r *Runtime) UpdateSettings(settings game.Settings) {
	old := r.current.Load()
	r.current.Store(&snapshot{settings: settings, limits: old.limits, segments: old.segments})
}

func (r *Runtime) UpdateWithdrawalLimits(limits game.WithdrawalLimits) {
	old := r.current.Load()
	r.current.Store(&snapshot{settings: old.settings, limits: limits, segments: old.segments})
}
