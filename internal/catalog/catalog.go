package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

var (
	// ErrNotFound is returned by Get for an unknown agent id.
	ErrNotFound = errors.New("agent not found")
	// ErrInvalidCatalog marks a configuration error in the agent catalog.
	ErrInvalidCatalog = errors.New("invalid agent catalog")
)

// AgentProfile is the static capability description of one coding agent.
// Profiles are read-only once they belong to a Catalog.
type AgentProfile struct {
	ID                 string                          `json:"id" yaml:"id"`
	Name               string                          `json:"name" yaml:"name"`
	SupportedLanguages []string                        `json:"supported_languages" yaml:"supported_languages"`
	SkillStrengths     map[string]float64              `json:"skill_strengths" yaml:"skill_strengths"`
	TaskTypeAffinity   map[taxonomy.TaskType]float64   `json:"task_type_affinity" yaml:"task_type_affinity"`
	ComplexityFit      map[taxonomy.Complexity]float64 `json:"complexity_fit" yaml:"complexity_fit"`
	FeatureTags        []string                        `json:"feature_tags" yaml:"feature_tags"`
}

// LanguageAgnostic reports whether the agent declares no language restriction.
func (p AgentProfile) LanguageAgnostic() bool {
	return len(p.SupportedLanguages) == 0
}

// Supports reports whether lang (canonical form) is declared by the agent.
func (p AgentProfile) Supports(lang string) bool {
	for _, l := range p.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

func (p AgentProfile) clone() AgentProfile {
	out := p
	out.SupportedLanguages = append([]string(nil), p.SupportedLanguages...)
	out.FeatureTags = append([]string(nil), p.FeatureTags...)
	out.SkillStrengths = make(map[string]float64, len(p.SkillStrengths))
	for k, v := range p.SkillStrengths {
		out.SkillStrengths[k] = v
	}
	out.TaskTypeAffinity = make(map[taxonomy.TaskType]float64, len(p.TaskTypeAffinity))
	for k, v := range p.TaskTypeAffinity {
		out.TaskTypeAffinity[k] = v
	}
	out.ComplexityFit = make(map[taxonomy.Complexity]float64, len(p.ComplexityFit))
	for k, v := range p.ComplexityFit {
		out.ComplexityFit[k] = v
	}
	return out
}

// Catalog is an immutable, ordered set of agent profiles. Declaration order
// is significant: it is the final tie-breaker when ranking.
type Catalog struct {
	agents   []AgentProfile
	index    map[string]int
	revision string
	loadID   string
}

// New validates profiles and freezes a private copy of them. Language names
// are canonicalized through tax (nil selects taxonomy.Default()).
func New(profiles []AgentProfile, tax *taxonomy.Taxonomy) (*Catalog, error) {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no agents configured", ErrInvalidCatalog)
	}

	c := &Catalog{
		agents:   make([]AgentProfile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
		loadID:   uuid.NewString(),
	}
	for i, p := range profiles {
		p = p.clone()
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			p.Name = p.ID
		}
		langs := make([]string, 0, len(p.SupportedLanguages))
		seen := make(map[string]bool)
		for _, l := range p.SupportedLanguages {
			if cl := tax.CanonicalLanguage(l); cl != "" && !seen[cl] {
				seen[cl] = true
				langs = append(langs, cl)
			}
		}
		p.SupportedLanguages = langs

		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("%w: agent #%d: %v", ErrInvalidCatalog, i, err)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate agent id %q", ErrInvalidCatalog, p.ID)
		}
		c.index[p.ID] = len(c.agents)
		c.agents = append(c.agents, p)
	}

	rev, err := contentRevision(c.agents)
	if err != nil {
		return nil, err
	}
	c.revision = rev
	return c, nil
}

// contentRevision hashes the canonical JSON of the validated profiles.
// encoding/json sorts map keys, so equal catalogs hash equally.
func contentRevision(agents []AgentProfile) (string, error) {
	data, err := json.Marshal(agents)
	if err != nil {
		return "", fmt.Errorf("hash agent catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}

func validateProfile(p AgentProfile) error {
	if p.ID == "" {
		return errors.New("empty id")
	}
	for skill, w := range p.SkillStrengths {
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("%s: skill %q: %v", p.ID, skill, err)
		}
	}
	for tt, w := range p.TaskTypeAffinity {
		if !tt.Valid() {
			return fmt.Errorf("%s: unknown task type %q", p.ID, tt)
		}
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("%s: task type %q: %v", p.ID, tt, err)
		}
	}
	for cx, w := range p.ComplexityFit {
		if parsed, err := taxonomy.ParseComplexity(string(cx)); err != nil || parsed != cx {
			return fmt.Errorf("%s: unknown complexity %q", p.ID, cx)
		}
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("%s: complexity %q: %v", p.ID, cx, err)
		}
	}
	return nil
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("weight %v outside [0,1]", w)
	}
	return nil
}

// List returns the profiles in declaration order. The slice is a copy; the
// profiles themselves must be treated as read-only.
func (c *Catalog) List() []AgentProfile {
	return append([]AgentProfile(nil), c.agents...)
}

// Get returns a deep copy of the profile with the given id.
func (c *Catalog) Get(id string) (AgentProfile, error) {
	i, ok := c.index[id]
	if !ok {
		return AgentProfile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.agents[i].clone(), nil
}

// Len returns the number of agents.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.agents)
}

// Revision is derived from the catalog content. Processes loading the same
// profiles report the same revision, and so does a reload of an unchanged
// file.
func (c *Catalog) Revision() string {
	if c == nil {
		return ""
	}
	return c.revision
}

// LoadID is unique to this catalog instance.
func (c *Catalog) LoadID() string {
	if c == nil {
		return ""
	}
	return c.loadID
}

// UnknownSkills returns skill keys used by profiles that the taxonomy never
// produces. They are legal but can never contribute to a score.
func (c *Catalog) UnknownSkills(tax *taxonomy.Taxonomy) []string {
	known := make(map[string]bool)
	for _, s := range tax.Skills {
		known[s.Tag] = true
	}
	for _, r := range tax.TaskTypes {
		for _, s := range r.ImpliedSkills {
			known[s] = true
		}
	}
	for _, r := range tax.Languages {
		for _, s := range r.ImpliedSkills {
			known[s] = true
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, a := range c.agents {
		for skill := range a.SkillStrengths {
			if !known[skill] && !seen[skill] {
				seen[skill] = true
				out = append(out, skill)
			}
		}
	}
	sort.Strings(out)
	return out
}
