package storyboard

import (
	"fmt"

	"homereel/pkg/model"
)

// ProfileStoryboard is the oracle profile used for generation calls.
const ProfileStoryboard = "storyboard"

// Request describes one storyboard generation. Style is an opaque
// pass-through to the prompt; the engine never interprets it.
type Request struct {
	Assets        []model.Asset
	Style         string
	PropertyTitle string
	Range         model.CutLengthRange
}

// Validate checks the request before any oracle call is made.
func (r *Request) Validate() error {
	if len(r.Assets) == 0 {
		return fmt.Errorf("request has no assets")
	}
	seen := make(map[string]bool, len(r.Assets))
	for _, a := range r.Assets {
		if a.ID == "" {
			return fmt.Errorf("request asset with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("request has duplicate asset id %q", a.ID)
		}
		seen[a.ID] = true
	}
	if r.Range.Min <= 0 || r.Range.Max < r.Range.Min {
		return fmt.Errorf("invalid scene range [%d, %d]", r.Range.Min, r.Range.Max)
	}
	return nil
}

// Report describes what post-processing did to one generation. It travels
// with the result so callers can surface quality information without
// inspecting the scenes themselves.
type Report struct {
	// GenerationID is the journal row written for this run; empty when no
	// journal is wired.
	GenerationID   string  `json:"generationId,omitempty"`
	Provider       string  `json:"provider"`
	Inversions     int     `json:"inversions"`
	InversionRatio float64 `json:"inversionRatio"`
	Resequenced    bool    `json:"resequenced"`
	RangeViolation bool    `json:"rangeViolation"`
}
