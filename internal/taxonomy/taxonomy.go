package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TaskType is the closed set of task categories the analyzer can produce.
type TaskType string

const (
	BugFix                TaskType = "bug_fix"
	FeatureImplementation TaskType = "feature_implementation"
	Refactoring           TaskType = "refactoring"
	CodeReview            TaskType = "code_review"
	Testing               TaskType = "testing"
	Documentation         TaskType = "documentation"
	ArchitectureDesign    TaskType = "architecture_design"
	DataProcessing        TaskType = "data_processing"
	General               TaskType = "general"
)

// TaskTypes lists every task type in declaration order.
var TaskTypes = []TaskType{
	BugFix, FeatureImplementation, Refactoring, CodeReview, Testing,
	Documentation, ArchitectureDesign, DataProcessing, General,
}

// Valid reports whether t belongs to the taxonomy.
func (t TaskType) Valid() bool {
	for _, known := range TaskTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable form, e.g. "bug fix".
func (t TaskType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Complexity is the low/medium/high scale shared by requests and agent profiles.
type Complexity string

const (
	Low    Complexity = "low"
	Medium Complexity = "medium"
	High   Complexity = "high"
)

// Complexities lists the scale from lowest to highest.
var Complexities = []Complexity{Low, Medium, High}

// ParseComplexity accepts any casing and surrounding whitespace. The empty
// string maps to Medium.
func ParseComplexity(s string) (Complexity, error) {
	switch c := Complexity(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Medium, nil
	case Low, Medium, High:
		return c, nil
	default:
		return "", fmt.Errorf("unknown complexity %q (want low, medium or high)", s)
	}
}

// Level returns 0, 1 or 2 for low, medium and high.
func (c Complexity) Level() int {
	switch c {
	case Low:
		return 0
	case High:
		return 2
	default:
		return 1
	}
}

// ComplexityFromLevel clamps level into [0,2] and returns the matching value.
func ComplexityFromLevel(level int) Complexity {
	switch {
	case level <= 0:
		return Low
	case level >= 2:
		return High
	default:
		return Medium
	}
}

// ErrInvalidTaxonomy is returned when a taxonomy fails validation.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// TaskTypeRule binds a task type to the phrases that signal it.
type TaskTypeRule struct {
	Type          TaskType `yaml:"type"`
	Triggers      []string `yaml:"triggers"`
	ImpliedSkills []string `yaml:"implied_skills,omitempty"`
}

// SkillRule defines one skill tag and the phrases that reveal it.
type SkillRule struct {
	Tag      string   `yaml:"tag"`
	Triggers []string `yaml:"triggers"`
}

// LanguageRule describes how a programming language is recognized.
// Ambiguous names (like "go") are only accepted as hints or through aliases,
// never as a bare word in the description.
type LanguageRule struct {
	Name          string   `yaml:"name"`
	Aliases       []string `yaml:"aliases,omitempty"`
	Extensions    []string `yaml:"extensions,omitempty"`
	Ambiguous     bool     `yaml:"ambiguous,omitempty"`
	ImpliedSkills []string `yaml:"implied_skills,omitempty"`
}

// Taxonomy is the keyword configuration driving task analysis. It is built
// once and shared read-only.
type Taxonomy struct {
	TaskTypes  []TaskTypeRule `yaml:"task_types"`
	Skills     []SkillRule    `yaml:"skills"`
	Languages  []LanguageRule `yaml:"languages"`
	Amplifiers []string       `yaml:"amplifiers"`
	Reducers   []string       `yaml:"reducers"`
}

// Validate checks the structural invariants of the taxonomy.
func (t *Taxonomy) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil taxonomy", ErrInvalidTaxonomy)
	}
	if len(t.TaskTypes) == 0 {
		return fmt.Errorf("%w: no task types", ErrInvalidTaxonomy)
	}
	seenTypes := make(map[TaskType]bool)
	for _, rule := range t.TaskTypes {
		if !rule.Type.Valid() || rule.Type == General {
			return fmt.Errorf("%w: task type %q cannot carry triggers", ErrInvalidTaxonomy, rule.Type)
		}
		if seenTypes[rule.Type] {
			return fmt.Errorf("%w: task type %q declared twice", ErrInvalidTaxonomy, rule.Type)
		}
		seenTypes[rule.Type] = true
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("%w: task type %q has no triggers", ErrInvalidTaxonomy, rule.Type)
		}
	}

	seenSkills := make(map[string]bool)
	for _, rule := range t.Skills {
		tag := strings.TrimSpace(rule.Tag)
		if tag == "" {
			return fmt.Errorf("%w: empty skill tag", ErrInvalidTaxonomy)
		}
		if seenSkills[tag] {
			return fmt.Errorf("%w: skill %q declared twice", ErrInvalidTaxonomy, tag)
		}
		seenSkills[tag] = true
	}

	seenLangs := make(map[string]bool)
	for _, rule := range t.Languages {
		name := strings.ToLower(strings.TrimSpace(rule.Name))
		if name == "" {
			return fmt.Errorf("%w: empty language name", ErrInvalidTaxonomy)
		}
		if seenLangs[name] {
			return fmt.Errorf("%w: language %q declared twice", ErrInvalidTaxonomy, name)
		}
		seenLangs[name] = true
	}
	return nil
}

// Skill returns the rule for tag, if declared.
func (t *Taxonomy) Skill(tag string) (SkillRule, bool) {
	for _, rule := range t.Skills {
		if rule.Tag == tag {
			return rule, true
		}
	}
	return SkillRule{}, false
}

// CanonicalLanguage maps a free-form language name to its canonical tag.
// Unknown names are returned lowercased and trimmed.
func (t *Taxonomy) CanonicalLanguage(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	for _, rule := range t.Languages {
		if n == rule.Name {
			return rule.Name
		}
		for _, alias := range rule.Aliases {
			if n == strings.ToLower(alias) {
				return rule.Name
			}
		}
	}
	return n
}

// Language returns the rule for a canonical language name.
func (t *Taxonomy) Language(name string) (LanguageRule, bool) {
	for _, rule := range t.Languages {
		if rule.Name == name {
			return rule, true
		}
	}
	return LanguageRule{}, false
}

// normalize lowercases every name and trigger so matching can assume
// lowercase input.
// Fingerprint identifies the vocabulary content. Two taxonomies with the same
// rules in the same order share a fingerprint.
func (t *Taxonomy) Fingerprint() string {
	data, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}

func (t *Taxonomy) normalize() {
	for i := range t.TaskTypes {
		t.TaskTypes[i].Triggers = lowerAll(t.TaskTypes[i].Triggers)
	}
	for i := range t.Skills {
		t.Skills[i].Tag = strings.TrimSpace(t.Skills[i].Tag)
		t.Skills[i].Triggers = lowerAll(t.Skills[i].Triggers)
	}
	for i := range t.Languages {
		t.Languages[i].Name = strings.ToLower(strings.TrimSpace(t.Languages[i].Name))
		t.Languages[i].Aliases = lowerAll(t.Languages[i].Aliases)
		t.Languages[i].Extensions = lowerAll(t.Languages[i].Extensions)
	}
	t.Amplifiers = lowerAll(t.Amplifiers)
	t.Reducers = lowerAll(t.Reducers)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
