// internal/eligibility/engine.go
package eligibility

import "time"

// Engine evaluates applicant profiles against an immutable scoring configuration.
// It performs no I/O and is safe for concurrent use.
type Engine struct {
	cfg     Config
	text    TextSignalClassifier
	catalog Catalog
	now     func() time.Time
}

type Option func(*Engine)

// WithClassifier replaces the keyword matcher used for free-text signals.
func WithClassifier(c TextSignalClassifier) Option {
	return func(e *Engine) { e.text = c }
}

// WithCatalog replaces the built-in recommendation rules.
func WithCatalog(c Catalog) Option {
	return func(e *Engine) { e.catalog = append(Catalog(nil), c...) }
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New validates cfg and the rule catalog and builds an engine. Any problem is
// reported as a *ConfigurationError.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg.clone(),
		text:    KeywordClassifier{},
		catalog: append(Catalog(nil), DefaultCatalog...),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.catalog.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns a copy of the active tables.
func (e *Engine) Config() Config { return e.cfg.clone() }

// Catalog returns a copy of the active rules.
func (e *Engine) Catalog() Catalog { return append(Catalog(nil), e.catalog...) }

// Assessment is the complete result of one evaluation.
type Assessment struct {
	Scores                    CategoryScores   `json:"scores"`
	Routes                    RouteEvaluation  `json:"eb2Route"`
	Waiver                    WaiverEvaluation `json:"niwEvaluation"`
	OverallScore              float64          `json:"overallScore"`
	ViabilityLevel            ViabilityLevel   `json:"viabilityLevel"`
	Strengths                 []Finding        `json:"strengths"`
	Weaknesses                []Finding        `json:"weaknesses"`
	Recommendations           []Recommendation `json:"recommendations"`
	NextSteps                 []string         `json:"nextSteps"`
	Message                   string           `json:"message"`
	EstimatedProcessingMonths int              `json:"estimatedProcessingMonths"`
	CreatedAt                 time.Time        `json:"createdAt"`
}

// Evaluate validates p and runs the full pipeline.
func (e *Engine) Evaluate(p *Profile) (*Assessment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	scores := e.ScoreCategories(p)
	routes := e.EvaluateRoutes(p)
	waiver := e.EvaluateWaiver(p)
	overall, level := e.Combine(routes.Score(), waiver.Overall)
	strengths, weaknesses := e.IdentifyFindings(scores, p)
	recs := e.Recommend(p, scores, routes, waiver)

	return &Assessment{
		Scores:                    scores,
		Routes:                    routes,
		Waiver:                    waiver,
		OverallScore:              overall,
		ViabilityLevel:            level,
		Strengths:                 strengths,
		Weaknesses:                weaknesses,
		Recommendations:           recs,
		NextSteps:                 NextSteps(level),
		Message:                   Message(level, routes.RecommendedRoute),
		EstimatedProcessingMonths: e.ProcessingMonths(level),
		CreatedAt:                 e.now(),
	}, nil
}

func (c Config) clone() Config {
	out := c
	out.Education.Institution.Tiers = append([]RankTier(nil), c.Education.Institution.Tiers...)
	out.AdvancedDegree.RankBonuses = append([]RankTier(nil), c.AdvancedDegree.RankBonuses...)

	for _, l := range []*Ladder{
		&out.Experience.Years,
		&out.Achievements.Publications, &out.Achievements.Patents,
		&out.Achievements.Projects, &out.Achievements.Citations,
		&out.Recognition.Awards, &out.Recognition.Speaking, &out.Recognition.Memberships,
		&out.AdvancedDegree.BachelorsByYears,
		&out.ExceptionalAbility.Tiers,
		&out.Waiver.Merit.ImportanceLength, &out.Waiver.Merit.Clarity,
		&out.Waiver.WellPositioned.QualificationYears,
		&out.Waiver.WellPositioned.SuccessPublications,
		&out.Waiver.WellPositioned.SuccessPatents,
		&out.Waiver.WellPositioned.SuccessProjects,
		&out.Waiver.WellPositioned.PlanLength,
		&out.Waiver.Benefit.KeywordCount, &out.Waiver.Benefit.LengthFallback,
		&out.Waiver.Benefit.ProfileYears,
	} {
		l.Steps = append([]Step(nil), l.Steps...)
	}

	k := &out.Keywords
	for _, s := range []*[]string{
		&k.StemHighDemand, &k.StemGeneral, &k.Niche,
		&k.HighImportance, &k.SignificantImportance,
		&k.BroadScope, &k.SignificantScope,
		&k.Urgency, &k.Impracticality,
	} {
		*s = append([]string(nil), (*s)...)
	}
	return out
}
