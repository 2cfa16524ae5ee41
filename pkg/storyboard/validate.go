package storyboard

import (
	"homereel/pkg/model"
)

// ValidateResult enforces the oracle output contract after unmarshalling.
// Every violation is a hard MalformedResponseError; a scene count outside
// the requested range is deliberately NOT checked here (it is flagged on the
// report instead of rejected).
func ValidateResult(req *Request, res *model.StoryboardResult) error {
	known := make(map[string]bool, len(req.Assets))
	for _, a := range req.Assets {
		known[a.ID] = true
	}

	for i := range res.RoomTags {
		tag := &res.RoomTags[i]
		if tag.AssetID == "" {
			return malformedf("roomTags[%d] has empty assetId", i)
		}
		if !known[tag.AssetID] {
			return malformedf("roomTags[%d] references unknown assetId %q", i, tag.AssetID)
		}
		if tag.Confidence < 0 || tag.Confidence > 1 {
			return malformedf("roomTags[%d] confidence %v outside [0, 1]", i, tag.Confidence)
		}
	}

	if len(res.Scenes) == 0 {
		return malformedf("storyboard has no scenes")
	}
	for i := range res.Scenes {
		sc := &res.Scenes[i]
		if sc.AssetID == "" {
			return malformedf("scenes[%d] has empty assetId", i)
		}
		if !known[sc.AssetID] {
			return malformedf("scenes[%d] references unknown assetId %q", i, sc.AssetID)
		}
		if sc.SceneOrder <= 0 {
			return malformedf("scenes[%d] has non-positive sceneOrder %d", i, sc.SceneOrder)
		}
		if !sc.MotionTemplate.Valid() {
			return malformedf("scenes[%d] has unknown motionTemplate %q", i, sc.MotionTemplate)
		}
		if sc.TargetDurationSec < 2 || sc.TargetDurationSec > 10 {
			return malformedf("scenes[%d] targetDurationSec %v outside [2, 10]", i, sc.TargetDurationSec)
		}
	}

	return nil
}
