package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

// ErrInvalidInput is returned when a description is empty or whitespace-only.
var ErrInvalidInput = errors.New("invalid input")

// Word-count thresholds for the complexity signal.
const (
	shortDescriptionWords = 12
	longDescriptionWords  = 60
)

// TaskAnalysis is the structured reading of one task description.
// It is never mutated after Analyze returns.
type TaskAnalysis struct {
	TaskType          taxonomy.TaskType   `json:"task_type"`
	RequiredSkills    []string            `json:"required_skills"`
	DetectedLanguages []string            `json:"detected_languages"`
	Complexity        taxonomy.Complexity `json:"complexity"`

	// ComplexitySignal is what the text alone suggests. The explicit hint
	// always wins, so this is kept for diagnostics only.
	ComplexitySignal taxonomy.Complexity `json:"-"`
	// Triggers holds the matched trigger phrases per task type.
	Triggers map[taxonomy.TaskType][]string `json:"-"`
}

// HasSkill reports whether tag is among the required skills.
func (a TaskAnalysis) HasSkill(tag string) bool {
	for _, s := range a.RequiredSkills {
		if s == tag {
			return true
		}
	}
	return false
}

// Analyzer turns free-text task descriptions into TaskAnalysis values using
// a keyword taxonomy. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	tax *taxonomy.Taxonomy
}

// New creates an Analyzer over tax. A nil taxonomy selects taxonomy.Default().
func New(tax *taxonomy.Taxonomy) *Analyzer {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Analyzer{tax: tax}
}

// Taxonomy returns the vocabulary the analyzer matches against.
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.tax
}

// Analyze classifies description. languageHint may be empty; an empty
// complexityHint means medium.
func (a *Analyzer) Analyze(description, languageHint string, complexityHint taxonomy.Complexity) (TaskAnalysis, error) {
	if strings.TrimSpace(description) == "" {
		return TaskAnalysis{}, fmt.Errorf("%w: description must not be empty", ErrInvalidInput)
	}
	complexity, err := taxonomy.ParseComplexity(string(complexityHint))
	if err != nil {
		return TaskAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	text := taxonomy.Normalize(description)

	taskType, triggers := a.classify(text)
	languages := a.detectLanguages(text, languageHint)
	skills := a.extractSkills(text, taskType, languages)

	return TaskAnalysis{
		TaskType:          taskType,
		RequiredSkills:    skills,
		DetectedLanguages: languages,
		Complexity:        complexity,
		ComplexitySignal:  a.complexitySignal(text),
		Triggers:          triggers,
	}, nil
}

// classify scores every declared task type by the number of distinct
// triggers found. The highest score wins; ties go to the type declared
// first; no match at all yields general.
func (a *Analyzer) classify(text string) (taxonomy.TaskType, map[taxonomy.TaskType][]string) {
	matched := make(map[taxonomy.TaskType][]string)
	best := taxonomy.General
	bestScore := 0

	for _, rule := range a.tax.TaskTypes {
		seen := make(map[string]bool, len(rule.Triggers))
		for _, trig := range rule.Triggers {
			if seen[trig] {
				continue
			}
			seen[trig] = true
			if taxonomy.Contains(text, trig) {
				matched[rule.Type] = append(matched[rule.Type], trig)
			}
		}
		if score := len(matched[rule.Type]); score > bestScore {
			best = rule.Type
			bestScore = score
		}
	}
	return best, matched
}

type hit struct {
	value  string
	offset int
	order  int
}

// sortHits orders by first appearance in the text, falling back to
// declaration order.
func sortHits(hits []hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].offset != hits[j].offset {
			return hits[i].offset < hits[j].offset
		}
		return hits[i].order < hits[j].order
	})
}

// extractSkills returns skills in first-seen order: vocabulary matches by
// position in the text, then skills implied by the task type, then skills
// implied by the detected languages.
func (a *Analyzer) extractSkills(text string, taskType taxonomy.TaskType, languages []string) []string {
	var hits []hit
	for i, rule := range a.tax.Skills {
		if off := firstMatch(text, rule.Triggers); off >= 0 {
			hits = append(hits, hit{value: rule.Tag, offset: off, order: i})
		}
	}
	sortHits(hits)

	skills := newOrderedSet()
	for _, h := range hits {
		skills.add(h.value)
	}
	for _, rule := range a.tax.TaskTypes {
		if rule.Type == taskType {
			skills.add(rule.ImpliedSkills...)
		}
	}
	for _, lang := range languages {
		if rule, ok := a.tax.Language(lang); ok {
			skills.add(rule.ImpliedSkills...)
		}
	}
	return skills.items
}

// detectLanguages puts the canonical hint first, then every known language
// mentioned in the text in order of appearance.
func (a *Analyzer) detectLanguages(text, hint string) []string {
	langs := newOrderedSet()
	if h := a.tax.CanonicalLanguage(hint); h != "" {
		langs.add(h)
	}

	var hits []hit
	for i, rule := range a.tax.Languages {
		candidates := make([]string, 0, 1+len(rule.Aliases)+len(rule.Extensions))
		if !rule.Ambiguous {
			candidates = append(candidates, rule.Name)
		}
		candidates = append(candidates, rule.Aliases...)
		candidates = append(candidates, rule.Extensions...)
		if off := firstMatch(text, candidates); off >= 0 {
			hits = append(hits, hit{value: rule.Name, offset: off, order: i})
		}
	}
	sortHits(hits)
	for _, h := range hits {
		langs.add(h.value)
	}
	return langs.items
}

// complexitySignal estimates scope from length, shifted one level toward
// whichever of the amplifying or reducing cue lists matched more.
func (a *Analyzer) complexitySignal(text string) taxonomy.Complexity {
	words := len(taxonomy.Words(text))
	level := 1
	switch {
	case words < shortDescriptionWords:
		level = 0
	case words > longDescriptionWords:
		level = 2
	}

	amp := countMatches(text, a.tax.Amplifiers)
	red := countMatches(text, a.tax.Reducers)
	switch {
	case amp > red:
		level++
	case red > amp:
		level--
	}
	return taxonomy.ComplexityFromLevel(level)
}

func firstMatch(text string, triggers []string) int {
	first := -1
	for _, trig := range triggers {
		if off := taxonomy.MatchIndex(text, trig); off >= 0 && (first == -1 || off < first) {
			first = off
		}
	}
	return first
}

func countMatches(text string, triggers []string) int {
	n := 0
	for _, trig := range triggers {
		if taxonomy.Contains(text, trig) {
			n++
		}
	}
	return n
}

// orderedSet keeps insertion order and drops duplicates and empty values.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: make(map[string]struct{})}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}
