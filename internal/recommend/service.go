package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/cache"
	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/explain"
	"github.com/nidhogg/agentmatch/internal/scoring"
	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

// ErrNoAgentsConfigured is returned when the catalog holds no agents.
var ErrNoAgentsConfigured = errors.New("no agents configured")

// ValidationError carries a client-facing message for a bad request.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// TaskRequest is the recommendation input.
type TaskRequest struct {
	Description string `json:"description"`
	Language    string `json:"language"`
	Complexity  string `json:"complexity"`
}

// AgentRecommendation is one ranked entry of the response.
type AgentRecommendation struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Score       float64          `json:"score"`
	Explanation string           `json:"explanation"`
	Analysis    explain.Analysis `json:"analysis"`
}

// Service runs analyze, score, rank and explain for each request. It keeps
// no per-request state and is safe for concurrent use.
type Service struct {
	store    *catalog.Store
	analyzer *analyzer.Analyzer
	engine   *scoring.Engine
	builder  *explain.Builder
	cache    cache.Cache
	logger   *zap.Logger
	// scope fingerprints every setting besides the catalog that shapes a
	// result, so instances sharing a cache only reuse compatible entries.
	scope string
}

// NewService wires a Service. A nil cache disables result caching.
func NewService(
	store *catalog.Store,
	an *analyzer.Analyzer,
	engine *scoring.Engine,
	builder *explain.Builder,
	c cache.Cache,
	logger *zap.Logger,
) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		store:    store,
		analyzer: an,
		engine:   engine,
		builder:  builder,
		cache:    c,
		logger:   logger,
		scope:    resultScope(an, engine, builder),
	}
}

func resultScope(an *analyzer.Analyzer, engine *scoring.Engine, builder *explain.Builder) string {
	data, _ := json.Marshal(struct {
		Weights     scoring.Weights `json:"weights"`
		MaxFeatures int             `json:"max_features"`
		Analyzer    string          `json:"analyzer"`
		Explain     string          `json:"explain"`
	}{
		Weights:     engine.Weights(),
		MaxFeatures: builder.MaxFeatures(),
		Analyzer:    an.Taxonomy().Fingerprint(),
		Explain:     builder.Taxonomy().Fingerprint(),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Catalog returns the snapshot currently served.
func (s *Service) Catalog() *catalog.Catalog {
	return s.store.Load()
}

// Analyze validates req and returns its analysis without scoring.
func (s *Service) Analyze(_ context.Context, req TaskRequest) (analyzer.TaskAnalysis, error) {
	req, complexity, err := normalize(req)
	if err != nil {
		return analyzer.TaskAnalysis{}, err
	}
	return s.analyze(req, complexity)
}

// Recommend ranks every catalog agent for req, best first.
func (s *Service) Recommend(ctx context.Context, req TaskRequest) ([]AgentRecommendation, error) {
	req, complexity, err := normalize(req)
	if err != nil {
		return nil, err
	}

	// One snapshot per request; a concurrent reload does not affect it.
	snap := s.store.Load()
	if snap.Len() == 0 {
		return nil, ErrNoAgentsConfigured
	}

	key := cacheKey(s.scope, snap.Revision(), req)
	if recs, ok := s.cached(ctx, key); ok {
		return recs, nil
	}

	analysis, err := s.analyze(req, complexity)
	if err != nil {
		return nil, err
	}

	candidates := s.engine.ScoreAll(analysis, snap.List())
	Rank(candidates)

	recs := make([]AgentRecommendation, len(candidates))
	for i, c := range candidates {
		ex := s.builder.Explain(c, analysis)
		recs[i] = AgentRecommendation{
			ID:          c.Agent.ID,
			Name:        c.Agent.Name,
			Score:       ExternalScore(c.RawScore),
			Explanation: ex.Text,
			Analysis:    ex.Analysis,
		}
	}

	s.logger.Debug("recommendation computed",
		zap.String("task_type", string(analysis.TaskType)),
		zap.Strings("required_skills", analysis.RequiredSkills),
		zap.Strings("languages", analysis.DetectedLanguages),
		zap.String("complexity", string(analysis.Complexity)),
		zap.String("complexity_signal", string(analysis.ComplexitySignal)),
		zap.String("top_agent", recs[0].ID),
		zap.Float64("top_score", recs[0].Score))

	s.remember(ctx, key, recs)
	return recs, nil
}

func (s *Service) analyze(req TaskRequest, complexity taxonomy.Complexity) (analyzer.TaskAnalysis, error) {
	analysis, err := s.analyzer.Analyze(req.Description, req.Language, complexity)
	if errors.Is(err, analyzer.ErrInvalidInput) {
		detail := strings.TrimPrefix(err.Error(), analyzer.ErrInvalidInput.Error()+": ")
		return analyzer.TaskAnalysis{}, &ValidationError{Detail: detail}
	}
	return analysis, err
}

// cached returns a previously computed result. Cache failures only cost a
// recomputation.
func (s *Service) cached(ctx context.Context, key string) ([]AgentRecommendation, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("result cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var recs []AgentRecommendation
	if err := json.Unmarshal(data, &recs); err != nil || len(recs) == 0 {
		s.logger.Warn("discarding unreadable cached result", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	s.logger.Debug("result cache hit", zap.String("key", key))
	return recs, true
}

func (s *Service) remember(ctx context.Context, key string, recs []AgentRecommendation) {
	data, err := json.Marshal(recs)
	if err != nil {
		s.logger.Warn("encode result for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("result cache write failed", zap.Error(err))
	}
}

// normalize trims the request and resolves the complexity hint.
func normalize(req TaskRequest) (TaskRequest, taxonomy.Complexity, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	req.Complexity = strings.ToLower(strings.TrimSpace(req.Complexity))

	if req.Description == "" {
		return req, "", &ValidationError{Detail: "description must not be empty"}
	}
	complexity, err := taxonomy.ParseComplexity(req.Complexity)
	if err != nil {
		return req, "", &ValidationError{Detail: "complexity must be one of low, medium, high"}
	}
	req.Complexity = string(complexity)
	return req, complexity, nil
}

// cacheKey scopes a request to one catalog revision and one service scope so
// a changed catalog or scoring setup never serves stale rankings.
func cacheKey(scope, revision string, req TaskRequest) string {
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write([]byte(req.Description))
	h.Write([]byte{0})
	h.Write([]byte(req.Language))
	h.Write([]byte{0})
	h.Write([]byte(req.Complexity))
	return revision + ":" + hex.EncodeToString(h.Sum(nil))
}
