package storyboard

import (
	"fmt"

	"homereel/pkg/model"
)

// CutChoice is an explicit cut-length selection. The zero value means
// "derive from the photo count".
type CutChoice string

const (
	CutAuto   CutChoice = ""
	CutShort  CutChoice = "short"
	CutMedium CutChoice = "medium"
	CutLong   CutChoice = "long"
)

// Scene-count ranges per cut length. Product constants.
var (
	shortRange  = model.CutLengthRange{Min: 10, Max: 14}
	mediumRange = model.CutLengthRange{Min: 15, Max: 20}
	longRange   = model.CutLengthRange{Min: 21, Max: 30}
)

// ParseCutChoice validates a user-supplied cut-length name.
func ParseCutChoice(s string) (CutChoice, error) {
	switch CutChoice(s) {
	case CutAuto, CutShort, CutMedium, CutLong:
		return CutChoice(s), nil
	}
	return CutAuto, fmt.Errorf("unknown cut length %q (want short, medium or long)", s)
}

// PickRange maps a photo count to the scene-count range requested from the
// oracle. An explicit choice always wins; otherwise small shoots get short
// reels and large shoots get long ones.
func PickRange(photoCount int, choice CutChoice) model.CutLengthRange {
	switch choice {
	case CutShort:
		return shortRange
	case CutMedium:
		return mediumRange
	case CutLong:
		return longRange
	}

	switch {
	case photoCount <= 14:
		return shortRange
	case photoCount <= 20:
		return mediumRange
	default:
		return longRange
	}
}
