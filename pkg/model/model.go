package model

import (
	"time"
)

// MotionTemplate identifies the virtual camera move applied to a scene.
type MotionTemplate string

// Supported camera motions. The renderer (external) knows how to execute
// these; everything else treats them as an enum.
const (
	MotionStatic   MotionTemplate = "static"
	MotionZoomIn   MotionTemplate = "zoom_in"
	MotionZoomOut  MotionTemplate = "zoom_out"
	MotionPanLeft  MotionTemplate = "pan_left"
	MotionPanRight MotionTemplate = "pan_right"
	MotionOrbit    MotionTemplate = "orbit"
)

// Valid reports whether m is one of the supported motions.
func (m MotionTemplate) Valid() bool {
	switch m {
	case MotionStatic, MotionZoomIn, MotionZoomOut, MotionPanLeft, MotionPanRight, MotionOrbit:
		return true
	}
	return false
}

// Asset represents one uploaded listing photo. The upload/storage lifecycle
// is owned by the caller; this core only reads IDs and room hints.
type Asset struct {
	ID         string  `json:"id"`
	RoomType   string  `json:"roomType,omitempty"`  // Previously assigned, may be empty
	Confidence float64 `json:"confidence,omitempty"` // Confidence of the previous assignment
}

// RoomTag is the oracle's room assignment for a single asset.
type RoomTag struct {
	AssetID     string  `json:"assetId"`
	RoomType    string  `json:"roomType"`
	Confidence  float64 `json:"confidence"` // 0.0 - 1.0
	Description string  `json:"description"`
}

// Scene is one entry in a storyboard. It references exactly one Asset.
type Scene struct {
	AssetID           string         `json:"assetId"`
	SceneOrder        int            `json:"sceneOrder"` // 1-based, contiguous within a storyboard
	Caption           string         `json:"caption"`
	MotionTemplate    MotionTemplate `json:"motionTemplate"`
	TargetDurationSec float64        `json:"targetDurationSec"` // 2.0 - 10.0

	// Resolved during post-processing, not part of the oracle contract.
	RoomType string `json:"roomType,omitempty"`
	Priority int    `json:"-"`
}

// StoryboardResult is the validated output of one generation request.
// It owns its RoomTags and Scenes; both are replaced wholesale on
// regeneration. It is handed to the caller for persistence.
type StoryboardResult struct {
	RoomTags     []RoomTag `json:"roomTags"`
	Scenes       []Scene   `json:"scenes"`
	NarrativeArc string    `json:"narrativeArc"`
}

// SceneCount returns the number of scenes in the storyboard.
func (r *StoryboardResult) SceneCount() int {
	return len(r.Scenes)
}

// CutLengthRange bounds the number of scenes requested from the oracle.
type CutLengthRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n falls within the range (inclusive).
func (c CutLengthRange) Contains(n int) bool {
	return n >= c.Min && n <= c.Max
}

// GenerationRecord is one journal row describing a completed (or failed)
// storyboard generation. Local observability only; the product's own
// persistence of the storyboard is external.
type GenerationRecord struct {
	ID             string    `json:"id"`
	PropertyTitle  string    `json:"propertyTitle"`
	Style          string    `json:"style"`
	Provider       string    `json:"provider"`
	PhotoCount     int       `json:"photoCount"`
	SceneCount     int       `json:"sceneCount"`
	RangeMin       int       `json:"rangeMin"`
	RangeMax       int       `json:"rangeMax"`
	InversionRatio float64   `json:"inversionRatio"`
	Resequenced    bool      `json:"resequenced"`
	RangeViolation bool      `json:"rangeViolation"`
	CreatedAt      time.Time `json:"createdAt"`
}
