package services

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
)

// SubScores are the dimension scores on a 0-100 scale. The two code dimensions are nil
// when the interview has no CODE question answered.
type SubScores struct {
	ContentRelevance     float64
	CommunicationSkill   float64
	TechnicalCompetence  *float64
	ProblemSolving       *float64
	ResponseConsistency  float64
	DepthOfResponse      float64
	CriticalThinking     float64
	BehavioralCompetency float64
}

// Values returns the non-nil sub-scores.
func (s SubScores) Values() []float64 {
	out := []float64{s.ContentRelevance, s.CommunicationSkill}
	if s.TechnicalCompetence != nil {
		out = append(out, *s.TechnicalCompetence)
	}
	if s.ProblemSolving != nil {
		out = append(out, *s.ProblemSolving)
	}
	return append(out, s.ResponseConsistency, s.DepthOfResponse, s.CriticalThinking, s.BehavioralCompetency)
}

type ResultScores struct {
	SubScores
	PerformanceSummary string
	DetailedFeedback   string
	Metrics            []types.ResultMetric
}

// ScoringFunction turns a session's questions and responses into scores. It must not touch storage.
type ScoringFunction interface {
	Score(questions []*types.Question, responses []*types.Response) (ResultScores, error)
}

type ScoringFunc func(questions []*types.Question, responses []*types.Response) (ResultScores, error)

func (f ScoringFunc) Score(questions []*types.Question, responses []*types.Response) (ResultScores, error) {
	return f(questions, responses)
}

// OverallScore is the mean of the non-nil sub-scores rounded to one decimal.
func OverallScore(s SubScores) float64 {
	vals := s.Values()
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return round1(sum / float64(len(vals)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// TieredBand picks Met when the dimension's heuristic holds, Unmet otherwise.
type TieredBand struct {
	Met   Band `yaml:"met"`
	Unmet Band `yaml:"unmet"`
}

type ScoringBands struct {
	HighCoverageRatio    float64    `yaml:"high_coverage_ratio"`
	LongResponseChars    float64    `yaml:"long_response_chars"`
	DeepResponseChars    float64    `yaml:"deep_response_chars"`
	ContentRelevance     TieredBand `yaml:"content_relevance"`
	CommunicationSkill   TieredBand `yaml:"communication_skill"`
	TechnicalCompetence  TieredBand `yaml:"technical_competence"`
	ProblemSolving       TieredBand `yaml:"problem_solving"`
	ResponseConsistency  TieredBand `yaml:"response_consistency"`
	DepthOfResponse      TieredBand `yaml:"depth_of_response"`
	CriticalThinking     TieredBand `yaml:"critical_thinking"`
	BehavioralCompetency TieredBand `yaml:"behavioral_competency"`
	Metrics              struct {
		AverageResponseTime Band `yaml:"average_response_time"`
		AnswerQuality       Band `yaml:"answer_quality"`
		InterviewEngagement Band `yaml:"interview_engagement"`
	} `yaml:"metrics"`
}

//go:embed scoring_bands.yaml
var defaultScoringBands []byte

func ParseScoringBands(raw []byte) (ScoringBands, error) {
	var b ScoringBands
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return ScoringBands{}, fmt.Errorf("parse scoring bands: %w", err)
	}
	if err := b.validate(); err != nil {
		return ScoringBands{}, err
	}
	return b, nil
}

func DefaultScoringBands() ScoringBands {
	b, err := ParseScoringBands(defaultScoringBands)
	if err != nil {
		panic(err)
	}
	return b
}

// LoadScoringBands reads bands from path, or returns the embedded defaults when path is empty.
func LoadScoringBands(path string) (ScoringBands, error) {
	if path == "" {
		return DefaultScoringBands(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScoringBands{}, fmt.Errorf("read scoring bands: %w", err)
	}
	return ParseScoringBands(raw)
}

func (b ScoringBands) validate() error {
	check := func(name string, band Band) error {
		if band.Min < 0 || band.Max > 100 || band.Min > band.Max {
			return fmt.Errorf("scoring band %s: invalid range [%v,%v]", name, band.Min, band.Max)
		}
		return nil
	}
	tiers := map[string]TieredBand{
		"content_relevance":     b.ContentRelevance,
		"communication_skill":   b.CommunicationSkill,
		"technical_competence":  b.TechnicalCompetence,
		"problem_solving":       b.ProblemSolving,
		"response_consistency":  b.ResponseConsistency,
		"depth_of_response":     b.DepthOfResponse,
		"critical_thinking":     b.CriticalThinking,
		"behavioral_competency": b.BehavioralCompetency,
	}
	for name, t := range tiers {
		if err := check(name+".met", t.Met); err != nil {
			return err
		}
		if err := check(name+".unmet", t.Unmet); err != nil {
			return err
		}
	}
	for name, band := range map[string]Band{
		"metrics.average_response_time": b.Metrics.AverageResponseTime,
		"metrics.answer_quality":        b.Metrics.AnswerQuality,
		"metrics.interview_engagement":  b.Metrics.InterviewEngagement,
	} {
		if err := check(name, band); err != nil {
			return err
		}
	}
	return nil
}

// BandScorer is the reference policy: each dimension is drawn from a configured band
// chosen by coverage, answer length and CODE completion heuristics.
type BandScorer struct {
	bands ScoringBands

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandScorer uses src for draws; a nil src seeds from the clock.
func NewBandScorer(bands ScoringBands, src rand.Source) *BandScorer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &BandScorer{bands: bands, rng: rand.New(src)}
}

func (s *BandScorer) draw(b Band) float64 {
	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()
	return round1(f*(b.Max-b.Min) + b.Min)
}

func (s *BandScorer) tier(t TieredBand, met bool) float64 {
	if met {
		return s.draw(t.Met)
	}
	return s.draw(t.Unmet)
}

// sessionStats are the response-quality heuristics the bands are keyed on.
type sessionStats struct {
	questions     int
	answered      int
	codeQuestions int
	codeAnswered  int
	coverage      float64
	codeCoverage  float64
	avgLength     float64
}

func computeStats(questions []*types.Question, responses []*types.Response) sessionStats {
	st := sessionStats{questions: len(questions), answered: len(responses)}
	codeIDs := map[uuid.UUID]bool{}
	for _, q := range questions {
		if q.Type == types.QuestionCode {
			st.codeQuestions++
			codeIDs[q.ID] = true
		}
	}
	total := 0
	for _, r := range responses {
		total += len([]rune(r.Content))
		if codeIDs[r.QuestionID] {
			st.codeAnswered++
		}
	}
	if st.questions > 0 {
		st.coverage = float64(st.answered) / float64(st.questions)
	}
	if st.codeQuestions > 0 {
		st.codeCoverage = float64(st.codeAnswered) / float64(st.codeQuestions)
	}
	if st.answered > 0 {
		st.avgLength = float64(total) / float64(st.answered)
	}
	return st
}

func (s *BandScorer) Score(questions []*types.Question, responses []*types.Response) (ResultScores, error) {
	b := s.bands
	st := computeStats(questions, responses)

	sub := SubScores{
		ContentRelevance:     s.tier(b.ContentRelevance, true),
		CommunicationSkill:   s.tier(b.CommunicationSkill, st.avgLength > b.LongResponseChars),
		ResponseConsistency:  s.tier(b.ResponseConsistency, st.coverage > b.HighCoverageRatio),
		DepthOfResponse:      s.tier(b.DepthOfResponse, st.avgLength > b.DeepResponseChars),
		CriticalThinking:     s.tier(b.CriticalThinking, true),
		BehavioralCompetency: s.tier(b.BehavioralCompetency, true),
	}
	if st.codeCoverage > 0 {
		tc := s.tier(b.TechnicalCompetence, true)
		ps := s.tier(b.ProblemSolving, true)
		sub.TechnicalCompetence = &tc
		sub.ProblemSolving = &ps
	}
	overall := OverallScore(sub)

	metrics := []types.ResultMetric{
		{
			Name:        "Question Coverage",
			Score:       round1(st.coverage * 100),
			Description: fmt.Sprintf("You answered %d out of %d questions.", st.answered, st.questions),
		},
		{
			Name:        "Average Response Time",
			Score:       s.draw(b.Metrics.AverageResponseTime),
			Description: "Your average response time was within the expected range.",
		},
		{
			Name:        "Answer Quality",
			Score:       s.draw(b.Metrics.AnswerQuality),
			Description: "Based on the specificity and relevance of your answers.",
		},
		{
			Name:        "Interview Engagement",
			Score:       s.draw(b.Metrics.InterviewEngagement),
			Description: "Based on your active participation throughout the interview.",
		},
	}

	return ResultScores{
		SubScores:          sub,
		PerformanceSummary: performanceSummary(overall, st),
		DetailedFeedback:   detailedFeedback(sub, overall),
		Metrics:            metrics,
	}, nil
}
