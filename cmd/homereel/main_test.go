package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"homereel/pkg/db"
	"homereel/pkg/model"
	"homereel/pkg/store"
	"homereel/pkg/tracker"
)

func TestLoadAssets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.json")

	content := `[
		{"id": "p1", "roomType": "kitchen"},
		{"id": "p2"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	assets, err := loadAssets(path)
	if err != nil {
		t.Fatalf("loadAssets failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].ID != "p1" || assets[0].RoomType != "kitchen" {
		t.Errorf("unexpected first asset: %+v", assets[0])
	}
	if assets[1].RoomType != "" {
		t.Errorf("expected empty room hint, got %q", assets[1].RoomType)
	}
}

func TestLoadAssets_Errors(t *testing.T) {
	if _, err := loadAssets("does-not-exist.json"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadAssets(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestPrintReport(t *testing.T) {
	ctx := context.Background()
	d, err := db.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db init failed: %v", err)
	}
	defer d.Close()
	st := store.NewSQLiteStore(d)

	rec := &model.GenerationRecord{
		ID:            "gen-1",
		PropertyTitle: "12 Oak Lane",
		Provider:      "gemini",
		PhotoCount:    7,
		SceneCount:    7,
		RangeMin:      5,
		RangeMax:      10,
		CreatedAt:     time.Now().UTC(),
	}
	if err := st.SaveGeneration(ctx, rec); err != nil {
		t.Fatalf("SaveGeneration failed: %v", err)
	}
	if err := st.SetState(ctx, lastGenerationKey, rec.ID); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	var buf bytes.Buffer
	if err := printReport(ctx, st, &buf); err != nil {
		t.Fatalf("printReport failed: %v", err)
	}

	var out struct {
		LastGenerationID string                    `json:"lastGenerationId"`
		Generations      []*model.GenerationRecord `json:"generations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("report output is not JSON: %v", err)
	}
	if out.LastGenerationID != "gen-1" {
		t.Errorf("expected lastGenerationId gen-1, got %q", out.LastGenerationID)
	}
	if len(out.Generations) != 1 || out.Generations[0].ID != "gen-1" {
		t.Errorf("unexpected generations: %+v", out.Generations)
	}
}

func TestLogStats(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	tr := tracker.New()
	tr.TrackAPISuccess("gemini")
	tr.TrackAPIFailure("gemini")
	tr.TrackResequence()

	logStats(tr)

	out := buf.String()
	if !strings.Contains(out, "Provider stats") || !strings.Contains(out, "provider=gemini") {
		t.Errorf("missing provider stats line: %s", out)
	}
	if !strings.Contains(out, "resequences=1") {
		t.Errorf("missing sequencing stats line: %s", out)
	}
}
