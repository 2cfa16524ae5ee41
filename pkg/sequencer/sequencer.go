package sequencer

import (
	"sort"

	"homereel/pkg/config"
	"homereel/pkg/model"
	"homereel/pkg/taxonomy"
)

// Tuning defaults. Both are empirically chosen product constants; changing
// them changes which oracle orderings get accepted.
const (
	// DefaultSlack is the rank tolerance for adjacent scenes. A transition
	// only counts as an inversion when it jumps back by more than this many
	// rank points, so small local creativity (two bedrooms swapped, a quick
	// cut back to the hallway) goes unpenalized.
	DefaultSlack = 5

	// DefaultMaxInversionRatio is the circuit breaker: above this share of
	// bad adjacent transitions the whole ordering is rebuilt.
	DefaultMaxInversionRatio = 0.3
)

// Sequencer scores scene orderings against the canonical walkthrough and
// rebuilds them when the oracle's ordering is clearly broken. It holds only
// read-only state and is safe for concurrent use.
type Sequencer struct {
	cfg   *config.SequencerConfig
	table *taxonomy.Table
}

// New creates a Sequencer. cfg may be nil, in which case defaults apply.
// Zero is a valid setting (strict slack, resequence on any inversion);
// negative values fall back to the defaults.
func New(cfg *config.SequencerConfig, table *taxonomy.Table) *Sequencer {
	return &Sequencer{cfg: cfg, table: table}
}

func (s *Sequencer) slack() int {
	if s.cfg != nil && s.cfg.Slack >= 0 {
		return s.cfg.Slack
	}
	return DefaultSlack
}

func (s *Sequencer) maxRatio() float64 {
	if s.cfg != nil && s.cfg.MaxInversionRatio >= 0 {
		return s.cfg.MaxInversionRatio
	}
	return DefaultMaxInversionRatio
}

// Priority resolves the walkthrough rank for a scene's room type.
func (s *Sequencer) Priority(scene *model.Scene) int {
	return s.table.Priority(scene.RoomType)
}

// CountInversions counts adjacent pairs that are badly out of walkthrough
// order: priority(i) > priority(i+1) + slack. Deliberately asymmetric and
// tolerant; forward jumps never count.
func (s *Sequencer) CountInversions(scenes []model.Scene) int {
	slack := s.slack()
	inversions := 0
	for i := 0; i+1 < len(scenes); i++ {
		if s.Priority(&scenes[i]) > s.Priority(&scenes[i+1])+slack {
			inversions++
		}
	}
	return inversions
}

// InversionRatio normalizes the inversion count across storyboard sizes:
// inversions / max(len-1, 1).
func (s *Sequencer) InversionRatio(scenes []model.Scene) float64 {
	transitions := len(scenes) - 1
	if transitions < 1 {
		transitions = 1
	}
	return float64(s.CountInversions(scenes)) / float64(transitions)
}

// NeedsResequencing reports whether the ordering behind the given ratio is
// too broken to keep.
func (s *Sequencer) NeedsResequencing(ratio float64) bool {
	return ratio > s.maxRatio()
}

// Resequence returns a new slice stably sorted by ascending walkthrough
// priority (input order breaks ties, so repeated runs on identical input
// are reproducible) with SceneOrder renumbered 1..N. It never drops scenes
// and never changes the Asset association; the input slice is not modified.
func (s *Sequencer) Resequence(scenes []model.Scene) []model.Scene {
	out := make([]model.Scene, len(scenes))
	copy(out, scenes)
	for i := range out {
		out[i].Priority = s.Priority(&out[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return Renumber(out)
}

// Renumber assigns contiguous 1-based SceneOrder values in slice order.
// The returned slice is the one passed in.
func Renumber(scenes []model.Scene) []model.Scene {
	for i := range scenes {
		scenes[i].SceneOrder = i + 1
	}
	return scenes
}
