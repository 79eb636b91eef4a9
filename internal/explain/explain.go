package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/scoring"
	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

// DefaultMaxFeatures bounds RecommendedFeatures when no limit is configured.
const DefaultMaxFeatures = 5

// mentionThreshold is the minimum term value worth mentioning.
const mentionThreshold = 0.2

// maxSkillMentions caps how many overlapping skills the text names.
const maxSkillMentions = 2

// Analysis is the read-only projection of a task analysis attached to each
// recommendation.
type Analysis struct {
	RequiredSkills      []string `json:"required_skills"`
	TaskType            string   `json:"task_type"`
	RecommendedFeatures []string `json:"recommended_features"`
}

// Explanation is the rendered justification for one candidate.
type Explanation struct {
	Text     string   `json:"explanation"`
	Analysis Analysis `json:"analysis"`
}

// Builder renders templated explanations. It is stateless after
// construction and safe for concurrent use.
type Builder struct {
	tax         *taxonomy.Taxonomy
	maxFeatures int
}

// NewBuilder creates a Builder. A nil taxonomy selects the default one and
// maxFeatures <= 0 selects DefaultMaxFeatures.
func NewBuilder(tax *taxonomy.Taxonomy, maxFeatures int) *Builder {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Builder{tax: tax, maxFeatures: maxFeatures}
}

// Taxonomy returns the vocabulary used to label skills.
func (b *Builder) Taxonomy() *taxonomy.Taxonomy {
	return b.tax
}

// MaxFeatures returns the cap on recommended features.
func (b *Builder) MaxFeatures() int {
	return b.maxFeatures
}

// Explain builds the explanation text and analysis payload for c.
func (b *Builder) Explain(c scoring.ScoredCandidate, a analyzer.TaskAnalysis) Explanation {
	skills := make([]string, len(a.RequiredSkills))
	copy(skills, a.RequiredSkills)

	return Explanation{
		Text: b.text(c, a),
		Analysis: Analysis{
			RequiredSkills:      skills,
			TaskType:            string(a.TaskType),
			RecommendedFeatures: b.features(c.Agent.FeatureTags, a.RequiredSkills),
		},
	}
}

func (b *Builder) text(c scoring.ScoredCandidate, a analyzer.TaskAnalysis) string {
	var clauses []string

	if affinity := c.Factor(scoring.FactorTask).Score; affinity >= mentionThreshold {
		verb := "can handle"
		switch {
		case affinity >= 0.8:
			verb = "excels at"
		case affinity >= 0.5:
			verb = "is well suited to"
		}
		clauses = append(clauses, fmt.Sprintf("%s %s tasks", verb, a.TaskType.Label()))
	}

	if top := topSkills(c); len(top) > 0 {
		clauses = append(clauses, "is strong in "+joinList(top))
	}

	if len(a.DetectedLanguages) > 0 {
		switch {
		case len(c.MatchedLanguages) > 0:
			clauses = append(clauses, "supports "+joinList(c.MatchedLanguages))
		case c.Agent.LanguageAgnostic():
			clauses = append(clauses, "works with any language, including "+a.DetectedLanguages[0])
		}
	}

	// Only a declared fit is worth stating; the neutral default says nothing.
	if fit, ok := c.Agent.ComplexityFit[a.Complexity]; ok && fit >= mentionThreshold {
		level := string(a.Complexity)
		switch {
		case fit >= 0.8:
			clauses = append(clauses, fmt.Sprintf("handles %s-complexity work well", level))
		case fit >= 0.5:
			clauses = append(clauses, fmt.Sprintf("suits %s-complexity work", level))
		default:
			clauses = append(clauses, fmt.Sprintf("copes with %s-complexity work", level))
		}
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("%s is a general-purpose fit for this task.", c.Agent.Name)
	}
	return fmt.Sprintf("%s %s.", c.Agent.Name, joinList(clauses))
}

// topSkills returns up to maxSkillMentions overlapping skills by strength,
// keeping analysis order among equals.
func topSkills(c scoring.ScoredCandidate) []string {
	type skill struct {
		tag      string
		strength float64
	}
	var ranked []skill
	for _, s := range c.SkillOverlap {
		if st := c.Agent.SkillStrengths[s]; st >= mentionThreshold {
			ranked = append(ranked, skill{tag: s, strength: st})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].strength > ranked[j].strength
	})
	if len(ranked) > maxSkillMentions {
		ranked = ranked[:maxSkillMentions]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = label(s.tag)
	}
	return out
}

// features orders tags by how many required skills they mention and keeps
// the first maxFeatures. Equal relevance keeps catalog order.
func (b *Builder) features(tags []string, required []string) []string {
	type feature struct {
		tag       string
		relevance int
	}
	ranked := make([]feature, len(tags))
	for i, tag := range tags {
		ranked[i] = feature{tag: tag, relevance: b.relevance(tag, required)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].relevance > ranked[j].relevance
	})
	if len(ranked) > b.maxFeatures {
		ranked = ranked[:b.maxFeatures]
	}
	out := make([]string, len(ranked))
	for i, f := range ranked {
		out[i] = f.tag
	}
	return out
}

func (b *Builder) relevance(tag string, required []string) int {
	text := taxonomy.Normalize(tag)
	n := 0
	for _, s := range required {
		if mentions(text, s, b.tax) {
			n++
		}
	}
	return n
}

func mentions(text, skill string, tax *taxonomy.Taxonomy) bool {
	if taxonomy.Contains(text, skill) || taxonomy.Contains(text, label(skill)) {
		return true
	}
	rule, ok := tax.Skill(skill)
	if !ok {
		return false
	}
	for _, trig := range rule.Triggers {
		if taxonomy.Contains(text, trig) {
			return true
		}
	}
	return false
}

func label(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// joinList renders "a", "a and b", or "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
