package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default(nil)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() < 3 {
		t.Fatalf("default catalog has %d agents, want at least 3", c.Len())
	}
	if unknown := c.UnknownSkills(taxonomy.Default()); len(unknown) != 0 {
		t.Errorf("default catalog uses skills the taxonomy never produces: %v", unknown)
	}
	if c.Revision() == "" {
		t.Error("expected a revision id")
	}
}

func TestGetAndList(t *testing.T) {
	c, err := New([]AgentProfile{
		{ID: "a", Name: "Alpha", SupportedLanguages: []string{"Golang", "go", "JS"}},
		{ID: " b ", SkillStrengths: map[string]float64{"api": 1}},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	list := c.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[1].Name != "b" {
		t.Errorf("empty name should default to id, got %q", list[1].Name)
	}
	if got := list[0].SupportedLanguages; len(got) != 2 || got[0] != "go" || got[1] != "javascript" {
		t.Errorf("languages not canonicalized/deduplicated: %v", got)
	}

	b, err := c.Get("b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b.SkillStrengths["api"] = 0
	again, _ := c.Get("b")
	if again.SkillStrengths["api"] != 1 {
		t.Error("Get must return a copy; catalog was mutated")
	}

	if _, err := c.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
}

func TestNewCopiesInput(t *testing.T) {
	profiles := []AgentProfile{{ID: "a", TaskTypeAffinity: map[taxonomy.TaskType]float64{taxonomy.BugFix: 0.5}}}
	c, err := New(profiles, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	profiles[0].TaskTypeAffinity[taxonomy.BugFix] = 0.9
	got, _ := c.Get("a")
	if got.TaskTypeAffinity[taxonomy.BugFix] != 0.5 {
		t.Error("catalog shares maps with caller input")
	}
}

func TestNewRejectsInvalidProfiles(t *testing.T) {
	cases := map[string][]AgentProfile{
		"empty catalog":        nil,
		"empty id":             {{ID: "  "}},
		"duplicate id":         {{ID: "a"}, {ID: "a"}},
		"skill weight high":    {{ID: "a", SkillStrengths: map[string]float64{"api": 1.2}}},
		"affinity negative":    {{ID: "a", TaskTypeAffinity: map[taxonomy.TaskType]float64{taxonomy.BugFix: -0.1}}},
		"unknown task type":    {{ID: "a", TaskTypeAffinity: map[taxonomy.TaskType]float64{"poetry": 0.5}}},
		"unknown complexity":   {{ID: "a", ComplexityFit: map[taxonomy.Complexity]float64{"extreme": 0.5}}},
		"uppercase complexity": {{ID: "a", ComplexityFit: map[taxonomy.Complexity]float64{"HIGH": 0.5}}},
	}
	for name, profiles := range cases {
		if _, err := New(profiles, nil); !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("%s: err = %v, want ErrInvalidCatalog", name, err)
		}
	}
}

const sampleYAML = `
agents:
  - id: fixer
    name: Fixer
    supported_languages: [python]
    skill_strengths:
      debugging: 0.9
    task_type_affinity:
      bug_fix: 1.0
    complexity_fit:
      low: 0.5
      high: 0.9
    feature_tags: ["Debugging"]
  - id: writer
    name: Writer
    task_type_affinity:
      documentation: 0.8
`

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fixer, err := c.Get("fixer")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fixer.TaskTypeAffinity[taxonomy.BugFix] != 1.0 || fixer.ComplexityFit[taxonomy.High] != 0.9 {
		t.Errorf("weights not decoded: %+v", fixer)
	}
	if _, err := Parse([]byte("agents: [\n"), nil); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("malformed yaml err = %v, want ErrInvalidCatalog", err)
	}
	if _, err := Parse([]byte("agents: []\n"), nil); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("empty yaml catalog err = %v, want ErrInvalidCatalog", err)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != len(DefaultProfiles()) {
		t.Errorf("got %d agents, want %d", c.Len(), len(DefaultProfiles()))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStoreSwap(t *testing.T) {
	first, _ := Default(nil)
	s := NewStore(first)
	second, _ := Parse([]byte(sampleYAML), nil)

	prev, err := s.Swap(second)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if prev != first || s.Load() != second {
		t.Error("swap did not replace the snapshot")
	}
	if _, err := s.Swap(nil); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("Swap(nil) err = %v, want ErrInvalidCatalog", err)
	}
	if s.Load() != second {
		t.Error("refused swap must keep the current snapshot")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agents.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	initial, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := NewStore(initial)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, s, func() (*Catalog, error) { return Load(path, nil) }, zap.NewNop())
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	// A broken file must not replace the catalog.
	if err := os.WriteFile(path, []byte("agents: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * reloadDebounce)
	if s.Load() != initial {
		t.Fatal("invalid catalog file replaced the snapshot")
	}

	updated := sampleYAML + "  - id: reviewer\n    name: Reviewer\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Load().Len() == 3 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("catalog not reloaded, still %d agents", s.Load().Len())
}

func TestShippedCatalogMatchesDefaults(t *testing.T) {
	shipped, err := Load(filepath.Join("..", "..", "configs", "agents.yaml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defaults := DefaultProfiles()
	if shipped.Len() != len(defaults) {
		t.Fatalf("shipped catalog has %d agents, built-in has %d", shipped.Len(), len(defaults))
	}
	for i, p := range shipped.List() {
		want := defaults[i]
		if p.ID != want.ID || len(p.FeatureTags) != len(want.FeatureTags) {
			t.Errorf("agent %d: got %s, want %s", i, p.ID, want.ID)
		}
		for tt, w := range want.TaskTypeAffinity {
			if p.TaskTypeAffinity[tt] != w {
				t.Errorf("%s: affinity[%s] = %v, want %v", p.ID, tt, p.TaskTypeAffinity[tt], w)
			}
		}
	}
}

func TestRevisionFollowsContent(t *testing.T) {
	a, err := Default(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Default(nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Revision() != b.Revision() {
		t.Errorf("equal catalogs: revisions %s and %s differ", a.Revision(), b.Revision())
	}
	if a.LoadID() == b.LoadID() {
		t.Error("expected a distinct load id per instance")
	}

	profiles := DefaultProfiles()
	profiles[len(profiles)-1].SkillStrengths["debugging"] = 0.11
	c, err := New(profiles, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Revision() == a.Revision() {
		t.Error("changed profile kept the same revision")
	}
}
