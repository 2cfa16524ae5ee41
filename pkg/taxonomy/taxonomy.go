package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownPriority is the rank assigned to labels that match nothing in the
// table. It is strictly greater than every defined rank, so unknown rooms
// always sort to the end of the walkthrough.
const UnknownPriority = 50

// Entry pairs a canonical room type with its walkthrough rank.
// Lower rank = earlier in the tour. Types sharing a rank form a tier.
type Entry struct {
	RoomType string `yaml:"room_type"`
	Rank     int    `yaml:"rank"`
}

// Table is the immutable walkthrough priority table. It is built once at
// startup and safe for unsynchronized concurrent reads.
type Table struct {
	entries []Entry        // canonical order, drives the substring fallback scan
	exact   map[string]int // normalized room type -> rank
}

// defaultEntries is the canonical walkthrough order: outside, entry,
// common rooms, kitchen, bedrooms, work/utility rooms, then outside again.
// Ranks are spaced by 2 so a swap inside a tier costs nothing and a small
// back-jump stays inside the ranker's tolerance band.
var defaultEntries = []Entry{
	{"aerial", 0},
	{"exterior", 2},
	{"front", 4},
	{"entry", 6},
	{"foyer", 6},
	{"hallway", 8},
	{"living_room", 10},
	{"great_room", 10},
	{"family_room", 12},
	{"dining_room", 14},
	{"kitchen", 16},
	{"primary_suite", 18},
	{"primary_bedroom", 18},
	{"primary_bathroom", 20},
	{"bedroom", 22},
	{"bathroom", 24},
	{"office", 26},
	{"study", 26},
	{"bonus_room", 28},
	{"laundry", 30},
	{"laundry_room", 30},
	{"utility", 32},
	{"mudroom", 34},
	{"basement", 36},
	{"garage", 38},
	{"patio", 40},
	{"deck", 42},
	{"backyard", 44},
	{"pool", 46},
	{"garden", 48},
}

// Default returns the built-in walkthrough table.
func Default() *Table {
	return New(defaultEntries)
}

// New builds a Table from the given entries. Entry order is preserved for
// the fallback scan, so callers should list entries in walkthrough order.
func New(entries []Entry) *Table {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		exact:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := Normalize(e.RoomType)
		if key == "" {
			continue
		}
		t.entries = append(t.entries, Entry{RoomType: key, Rank: e.Rank})
		if _, ok := t.exact[key]; !ok {
			t.exact[key] = e.Rank
		}
	}
	return t
}

// Load reads a walkthrough table from a YAML file. The file lists entries
// in walkthrough order; relative order is the contract, exact integers are
// free as long as every rank stays below UnknownPriority.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms file: %w", err)
	}

	var raw struct {
		Rooms []Entry `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rooms file: %w", err)
	}
	if len(raw.Rooms) == 0 {
		return nil, fmt.Errorf("rooms file %s defines no rooms", path)
	}
	for _, e := range raw.Rooms {
		if e.Rank >= UnknownPriority {
			return nil, fmt.Errorf("room %q rank %d must be below %d", e.RoomType, e.Rank, UnknownPriority)
		}
	}

	return New(raw.Rooms), nil
}

// Normalize canonicalizes a free-text room label: lowercase, trimmed,
// whitespace runs collapsed and replaced with underscores. Total over any
// input; never fails.
func Normalize(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	return strings.Join(fields, "_")
}

// Priority resolves a room label to its walkthrough rank. Exact match
// first, then a bidirectional substring scan in canonical order (absorbs
// synonyms like "master bedroom" vs "primary_bedroom"), then
// UnknownPriority. Deterministic and total.
func (t *Table) Priority(label string) int {
	key := Normalize(label)
	if key == "" {
		return UnknownPriority
	}

	if rank, ok := t.exact[key]; ok {
		return rank
	}

	for _, e := range t.entries {
		if strings.Contains(key, e.RoomType) || strings.Contains(e.RoomType, key) {
			return e.Rank
		}
	}

	return UnknownPriority
}

// RoomTypes returns the canonical room type vocabulary in walkthrough
// order, for use in oracle prompts.
func (t *Table) RoomTypes() []string {
	types := make([]string, 0, len(t.entries))
	seen := make(map[string]bool, len(t.entries))
	for _, e := range t.entries {
		if seen[e.RoomType] {
			continue
		}
		seen[e.RoomType] = true
		types = append(types, e.RoomType)
	}
	return types
}
