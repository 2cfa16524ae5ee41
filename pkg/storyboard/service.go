package storyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"homereel/pkg/llm"
	"homereel/pkg/llm/prompts"
	"homereel/pkg/model"
	"homereel/pkg/sequencer"
	"homereel/pkg/store"
	"homereel/pkg/taxonomy"
	"homereel/pkg/tracker"
)

// generateTemplate is the prompt rendered for each generation call.
const generateTemplate = "storyboard/generate.tmpl"

// Service runs the full generation pipeline: prompt the oracle, enforce the
// output contract, annotate walkthrough priorities and repair degenerate
// orderings.
type Service struct {
	provider     llm.Provider
	providerName string
	pm           *prompts.Manager
	seq          *sequencer.Sequencer
	table        *taxonomy.Table
	journal      store.GenerationStore
	tracker      *tracker.Tracker
}

// NewService creates a Service. journal and tracker may be nil.
func NewService(provider llm.Provider, providerName string, pm *prompts.Manager, seq *sequencer.Sequencer, table *taxonomy.Table, journal store.GenerationStore, t *tracker.Tracker) *Service {
	return &Service{
		provider:     provider,
		providerName: providerName,
		pm:           pm,
		seq:          seq,
		table:        table,
		journal:      journal,
		tracker:      t,
	}
}

// promptData is the template payload for generateTemplate.
type promptData struct {
	PropertyTitle string
	Style         string
	Assets        []model.Asset
	RangeMin      int
	RangeMax      int
	Vocabulary    []string
	Motions       []string
}

// Generate runs one storyboard generation end to end. The returned result is
// fully validated and sequenced; the report describes the repairs applied.
func (s *Service) Generate(ctx context.Context, req *Request) (*model.StoryboardResult, *Report, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid request: %w", err)
	}

	prompt, err := s.pm.Render(generateTemplate, promptData{
		PropertyTitle: req.PropertyTitle,
		Style:         req.Style,
		Assets:        req.Assets,
		RangeMin:      req.Range.Min,
		RangeMax:      req.Range.Max,
		Vocabulary:    s.table.RoomTypes(),
		Motions: []string{
			string(model.MotionStatic), string(model.MotionZoomIn), string(model.MotionZoomOut),
			string(model.MotionPanLeft), string(model.MotionPanRight), string(model.MotionOrbit),
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rendering prompt: %w", err)
	}

	var raw model.StoryboardResult
	if err := s.provider.GenerateJSON(ctx, ProfileStoryboard, prompt, &raw); err != nil {
		// llm.ErrMalformed means the oracle answered with garbage; anything
		// else is a transport or provider problem.
		if errors.Is(err, llm.ErrMalformed) {
			s.trackMalformed()
			return nil, nil, malformedf("%v", err)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	if err := ValidateResult(req, &raw); err != nil {
		s.trackMalformed()
		return nil, nil, err
	}

	result, report := s.sequence(req, &raw)
	report.Provider = s.providerName

	s.journalGeneration(ctx, req, result, report)

	slog.Info("Storyboard generated",
		"scenes", result.SceneCount(),
		"inversion_ratio", report.InversionRatio,
		"resequenced", report.Resequenced,
		"range_violation", report.RangeViolation)

	return result, report, nil
}

// sequence annotates room types and priorities, scores the oracle's ordering
// and rebuilds it when the validator fires. The raw result is not modified.
func (s *Service) sequence(req *Request, raw *model.StoryboardResult) (*model.StoryboardResult, *Report) {
	// roomTags win over any hint the request carried.
	rooms := make(map[string]string, len(raw.RoomTags))
	for _, tag := range raw.RoomTags {
		rooms[tag.AssetID] = tag.RoomType
	}
	for _, a := range req.Assets {
		if _, ok := rooms[a.ID]; !ok && a.RoomType != "" {
			rooms[a.ID] = a.RoomType
		}
	}

	// The oracle's intended order is ascending sceneOrder; ties keep their
	// returned position.
	scenes := make([]model.Scene, len(raw.Scenes))
	copy(scenes, raw.Scenes)
	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].SceneOrder < scenes[j].SceneOrder
	})
	for i := range scenes {
		scenes[i].RoomType = rooms[scenes[i].AssetID]
		scenes[i].Priority = s.table.Priority(scenes[i].RoomType)
	}

	report := &Report{
		Inversions:     s.seq.CountInversions(scenes),
		InversionRatio: s.seq.InversionRatio(scenes),
	}

	if s.seq.NeedsResequencing(report.InversionRatio) {
		scenes = s.seq.Resequence(scenes)
		report.Resequenced = true
		if s.tracker != nil {
			s.tracker.TrackResequence()
		}
	} else {
		scenes = sequencer.Renumber(scenes)
	}

	if !req.Range.Contains(len(scenes)) {
		report.RangeViolation = true
		if s.tracker != nil {
			s.tracker.TrackRangeViolation()
		}
	}

	tags := make([]model.RoomTag, len(raw.RoomTags))
	copy(tags, raw.RoomTags)

	return &model.StoryboardResult{
		RoomTags:     tags,
		Scenes:       scenes,
		NarrativeArc: raw.NarrativeArc,
	}, report
}

func (s *Service) journalGeneration(ctx context.Context, req *Request, res *model.StoryboardResult, rep *Report) {
	if s.journal == nil {
		return
	}

	rep.GenerationID = uuid.NewString()
	rec := &model.GenerationRecord{
		ID:             rep.GenerationID,
		PropertyTitle:  req.PropertyTitle,
		Style:          req.Style,
		Provider:       rep.Provider,
		PhotoCount:     len(req.Assets),
		SceneCount:     res.SceneCount(),
		RangeMin:       req.Range.Min,
		RangeMax:       req.Range.Max,
		InversionRatio: rep.InversionRatio,
		Resequenced:    rep.Resequenced,
		RangeViolation: rep.RangeViolation,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.journal.SaveGeneration(ctx, rec); err != nil {
		slog.Error("Failed to journal generation", "id", rec.ID, "error", err)
	}
}

func (s *Service) trackMalformed() {
	if s.tracker != nil {
		s.tracker.TrackMalformed(s.providerName)
	}
}
