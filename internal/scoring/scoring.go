package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/catalog"
)

// ErrInvalidWeights is returned when a weight set is not a convex combination.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Factor names, in the order they appear in ScoredCandidate.Factors.
const (
	FactorTask       = "task_type"
	FactorSkill      = "skill"
	FactorLanguage   = "language"
	FactorComplexity = "complexity"
)

const (
	// neutralComplexityFit is used when a profile says nothing about a level.
	neutralComplexityFit = 0.5
	// ComplexityMatchThreshold is the fit at which an agent counts as a
	// complexity match.
	ComplexityMatchThreshold = 0.6

	weightTolerance = 1e-9
)

// Weights sets the contribution of each factor. They must lie in [0,1] and
// sum to 1 so that raw scores stay in [0,1].
type Weights struct {
	Task       float64 `json:"task"`
	Skill      float64 `json:"skill"`
	Language   float64 `json:"language"`
	Complexity float64 `json:"complexity"`
}

// DefaultWeights returns 0.35/0.35/0.15/0.15.
func DefaultWeights() Weights {
	return Weights{Task: 0.35, Skill: 0.35, Language: 0.15, Complexity: 0.15}
}

// Validate checks the convex-combination invariant.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		FactorTask: w.Task, FactorSkill: w.Skill, FactorLanguage: w.Language, FactorComplexity: w.Complexity,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s weight %v outside [0,1]", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Task + w.Skill + w.Language + w.Complexity; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Factor is one term of the score breakdown.
type Factor struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// ScoredCandidate is the per-request scoring result for one agent.
type ScoredCandidate struct {
	Agent catalog.AgentProfile
	// Index is the agent's position in the catalog, the last tie-breaker.
	Index    int
	RawScore float64
	// SkillOverlap lists required skills the agent has a non-zero strength
	// in, in the order of the analysis.
	SkillOverlap []string
	// MatchedLanguages are the requested languages the agent declares.
	MatchedLanguages []string
	LanguageMatch    bool
	ComplexityMatch  bool
	Factors          []Factor
}

// Factor returns the named factor, or a zero Factor.
func (c ScoredCandidate) Factor(name string) Factor {
	for _, f := range c.Factors {
		if f.Name == name {
			return f
		}
	}
	return Factor{Name: name}
}

// Engine scores agents against a task analysis. It is a pure function of
// its inputs and safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine validates w and returns an Engine using it.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: w}, nil
}

// Weights returns the weight set in use.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score computes the match between a and agent.
func (e *Engine) Score(a analyzer.TaskAnalysis, agent catalog.AgentProfile) ScoredCandidate {
	c := ScoredCandidate{Agent: agent}

	task := taskFactor(a, agent)
	skill, overlap := skillFactor(a, agent)
	lang, matched := languageFactor(a, agent)
	cx := complexityFactor(a, agent)

	c.SkillOverlap = overlap
	c.MatchedLanguages = matched
	c.LanguageMatch = lang.Score == 1
	c.ComplexityMatch = cx.Score >= ComplexityMatchThreshold

	c.Factors = []Factor{task, skill, lang, cx}
	weights := []float64{e.weights.Task, e.weights.Skill, e.weights.Language, e.weights.Complexity}

	var total float64
	for i := range c.Factors {
		c.Factors[i].Weight = weights[i]
		c.Factors[i].Weighted = c.Factors[i].Score * weights[i]
		total += c.Factors[i].Weighted
	}
	c.RawScore = clamp(total, 0, 1)
	return c
}

// ScoreAll scores every agent in catalog order.
func (e *Engine) ScoreAll(a analyzer.TaskAnalysis, agents []catalog.AgentProfile) []ScoredCandidate {
	out := make([]ScoredCandidate, len(agents))
	for i, agent := range agents {
		out[i] = e.Score(a, agent)
		out[i].Index = i
	}
	return out
}

func taskFactor(a analyzer.TaskAnalysis, agent catalog.AgentProfile) Factor {
	affinity, ok := agent.TaskTypeAffinity[a.TaskType]
	if !ok {
		return Factor{Name: FactorTask, Score: 0, Reason: "no affinity declared for " + string(a.TaskType)}
	}
	return Factor{Name: FactorTask, Score: affinity, Reason: "affinity for " + string(a.TaskType)}
}

// skillFactor is the strength-weighted fraction of required skills the
// agent covers.
func skillFactor(a analyzer.TaskAnalysis, agent catalog.AgentProfile) (Factor, []string) {
	overlap := []string{}
	if len(a.RequiredSkills) == 0 {
		return Factor{Name: FactorSkill, Score: 0, Reason: "no skills required"}, overlap
	}
	var sum float64
	for _, s := range a.RequiredSkills {
		if strength := agent.SkillStrengths[s]; strength > 0 {
			sum += strength
			overlap = append(overlap, s)
		}
	}
	score := sum / math.Max(1, float64(len(a.RequiredSkills)))
	reason := fmt.Sprintf("covers %d of %d required skills", len(overlap), len(a.RequiredSkills))
	return Factor{Name: FactorSkill, Score: clamp(score, 0, 1), Reason: reason}, overlap
}

// languageFactor never penalizes language-agnostic agents, and gives full
// marks to everyone when no language was requested or detected.
func languageFactor(a analyzer.TaskAnalysis, agent catalog.AgentProfile) (Factor, []string) {
	matched := []string{}
	for _, l := range a.DetectedLanguages {
		if agent.Supports(l) {
			matched = append(matched, l)
		}
	}
	switch {
	case agent.LanguageAgnostic():
		return Factor{Name: FactorLanguage, Score: 1, Reason: "language-agnostic"}, matched
	case len(a.DetectedLanguages) == 0:
		return Factor{Name: FactorLanguage, Score: 1, Reason: "no language requested"}, matched
	case len(matched) > 0:
		return Factor{Name: FactorLanguage, Score: 1, Reason: "supports requested language"}, matched
	default:
		return Factor{Name: FactorLanguage, Score: 0, Reason: "requested language not supported"}, matched
	}
}

func complexityFactor(a analyzer.TaskAnalysis, agent catalog.AgentProfile) Factor {
	fit, ok := agent.ComplexityFit[a.Complexity]
	if !ok {
		return Factor{Name: FactorComplexity, Score: neutralComplexityFit, Reason: "no fit declared, neutral"}
	}
	return Factor{Name: FactorComplexity, Score: fit, Reason: "fit for " + string(a.Complexity) + " complexity"}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
