package explain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/scoring"
	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

func score(t *testing.T, a analyzer.TaskAnalysis, agent catalog.AgentProfile) scoring.ScoredCandidate {
	t.Helper()
	e, err := scoring.NewEngine(scoring.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	return e.Score(a, agent)
}

func TestExplainMentionsDominantTerms(t *testing.T) {
	a := analyzer.TaskAnalysis{
		TaskType:          taxonomy.BugFix,
		RequiredSkills:    []string{"debugging", "api", "database"},
		DetectedLanguages: []string{"go"},
		Complexity:        taxonomy.High,
	}
	agent := catalog.AgentProfile{
		ID:                 "fixer",
		Name:               "Fixer",
		SupportedLanguages: []string{"go"},
		SkillStrengths:     map[string]float64{"debugging": 0.7, "api": 0.9, "database": 0.5},
		TaskTypeAffinity:   map[taxonomy.TaskType]float64{taxonomy.BugFix: 0.9},
		ComplexityFit:      map[taxonomy.Complexity]float64{taxonomy.High: 0.6},
	}

	got := NewBuilder(nil, 0).Explain(score(t, a, agent), a).Text
	want := "Fixer excels at bug fix tasks, is strong in api and debugging, supports go and suits high-complexity work."
	if got != want {
		t.Errorf("text =\n  %q\nwant\n  %q", got, want)
	}
}

func TestExplainAffinityWording(t *testing.T) {
	a := analyzer.TaskAnalysis{TaskType: taxonomy.Refactoring, Complexity: taxonomy.Medium}
	cases := map[float64]string{
		0.85: "excels at refactoring tasks",
		0.6:  "is well suited to refactoring tasks",
		0.3:  "can handle refactoring tasks",
	}
	for affinity, phrase := range cases {
		agent := catalog.AgentProfile{
			Name:             "A",
			TaskTypeAffinity: map[taxonomy.TaskType]float64{taxonomy.Refactoring: affinity},
		}
		if got := NewBuilder(nil, 0).Explain(score(t, a, agent), a).Text; !strings.Contains(got, phrase) {
			t.Errorf("affinity %v: %q does not contain %q", affinity, got, phrase)
		}
	}
}

func TestExplainFallsBackToGeneric(t *testing.T) {
	a := analyzer.TaskAnalysis{
		TaskType:       taxonomy.Documentation,
		RequiredSkills: []string{"documentation"},
		Complexity:     taxonomy.Low,
	}
	agent := catalog.AgentProfile{
		Name:             "Weak",
		SkillStrengths:   map[string]float64{"documentation": 0.1},
		TaskTypeAffinity: map[taxonomy.TaskType]float64{taxonomy.Documentation: 0.1},
		ComplexityFit:    map[taxonomy.Complexity]float64{taxonomy.Low: 0.1},
	}
	got := NewBuilder(nil, 0).Explain(score(t, a, agent), a).Text
	if got != "Weak is a general-purpose fit for this task." {
		t.Errorf("expected generic explanation, got %q", got)
	}
}

func TestExplainAgnosticLanguageNote(t *testing.T) {
	a := analyzer.TaskAnalysis{TaskType: taxonomy.General, DetectedLanguages: []string{"rust"}, Complexity: taxonomy.Medium}
	got := NewBuilder(nil, 0).Explain(score(t, a, catalog.AgentProfile{Name: "Any"}), a).Text
	if !strings.Contains(got, "works with any language, including rust") {
		t.Errorf("agnostic note missing: %q", got)
	}
}

func TestRecommendedFeaturesOrderedByRelevance(t *testing.T) {
	a := analyzer.TaskAnalysis{
		TaskType:       taxonomy.BugFix,
		RequiredSkills: []string{"debugging", "security"},
		Complexity:     taxonomy.Medium,
	}
	agent := catalog.AgentProfile{
		Name: "A",
		FeatureTags: []string{
			"Inline completions",
			"Security-aware code review",
			"Debugging with stack trace analysis and vulnerability scanning",
			"Chat",
		},
	}
	got := NewBuilder(nil, 3).Explain(score(t, a, agent), a).Analysis.RecommendedFeatures
	want := []string{
		"Debugging with stack trace analysis and vulnerability scanning",
		"Security-aware code review",
		"Inline completions",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("features = %v, want %v", got, want)
	}
}

func TestAnalysisPassThrough(t *testing.T) {
	a := analyzer.TaskAnalysis{TaskType: taxonomy.General, Complexity: taxonomy.Medium}
	ex := NewBuilder(nil, 0).Explain(score(t, a, catalog.AgentProfile{Name: "A"}), a)
	b, err := json.Marshal(ex)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, frag := range []string{`"required_skills":[]`, `"task_type":"general"`, `"recommended_features":[]`} {
		if !strings.Contains(s, frag) {
			t.Errorf("%s missing from %s", frag, s)
		}
	}
}
