package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

type QuestionTypeStats struct {
	Count        int      `json:"count"`
	AverageScore *float64 `json:"average_score"`
}

type UserMetrics struct {
	TotalInterviews     int                          `json:"total_interviews"`
	CompletedInterviews int                          `json:"completed_interviews"`
	AverageScore        *float64                     `json:"average_score"`
	HighestScore        *float64                     `json:"highest_score"`
	TotalDuration       int                          `json:"total_duration"`
	RecentActivity      RecentActivity               `json:"recent_activity"`
	SkillBreakdown      map[string]int               `json:"skill_breakdown"`
	ProgressOverTime    []ScorePoint                 `json:"progress_over_time"`
	QuestionTypes       map[string]QuestionTypeStats `json:"question_type_performance"`
}

type RecentActivity struct {
	LastInterviewDate *time.Time `json:"last_interview_date"`
	LastResultDate    *time.Time `json:"last_result_date"`
}

type UserMetricsService interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*UserMetrics, error)
}

type userMetricsService struct {
	log   *logger.Logger
	repos repos.Repos
}

func NewUserMetricsService(baseLog *logger.Logger, r repos.Repos) UserMetricsService {
	return &userMetricsService{log: baseLog.With("service", "UserMetricsService"), repos: r}
}

func (s *userMetricsService) Get(dbc dbctx.Context, userID uuid.UUID) (*UserMetrics, error) {
	var (
		sessions []*types.InterviewSession
		results  []*types.InterviewResult
	)
	g, gctx := errgroup.WithContext(dbc.Context())
	gdbc := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	if dbc.Tx != nil {
		g.SetLimit(1)
	}
	g.Go(func() error {
		var err error
		sessions, err = s.repos.Sessions.ListByUser(gdbc, userID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.repos.Results.ListByUser(gdbc, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	interviewIDs := make([]uuid.UUID, 0, len(sessions))
	seen := map[uuid.UUID]bool{}
	for _, sess := range sessions {
		sessionIDs = append(sessionIDs, sess.ID)
		if !seen[sess.InterviewID] {
			seen[sess.InterviewID] = true
			interviewIDs = append(interviewIDs, sess.InterviewID)
		}
	}
	responses, err := s.repos.Responses.ListBySessions(dbc, sessionIDs)
	if err != nil {
		return nil, err
	}
	interviews, err := s.repos.Interviews.GetByIDs(dbc, interviewIDs)
	if err != nil {
		return nil, err
	}
	return computeUserMetrics(sessions, results, responses, interviews), nil
}

func computeUserMetrics(sessions []*types.InterviewSession, results []*types.InterviewResult, responses []*types.Response, interviews []*types.Interview) *UserMetrics {
	m := &UserMetrics{
		TotalInterviews:  len(sessions),
		SkillBreakdown:   map[string]int{},
		ProgressOverTime: []ScorePoint{},
		QuestionTypes:    map[string]QuestionTypeStats{},
	}

	for _, sess := range sessions {
		if sess.Status.Ended() {
			m.CompletedInterviews++
		}
		if sess.EndedAt != nil {
			m.TotalDuration += int(math.Round(sess.EndedAt.Sub(sess.StartedAt).Minutes()))
		}
		if m.RecentActivity.LastInterviewDate == nil || sess.StartedAt.After(*m.RecentActivity.LastInterviewDate) {
			started := sess.StartedAt
			m.RecentActivity.LastInterviewDate = &started
		}
	}

	sorted := make([]*types.InterviewResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	resultByInterview := map[uuid.UUID]*types.InterviewResult{}
	scoreBySession := map[uuid.UUID]float64{}
	if len(sorted) > 0 {
		sum := 0.0
		highest := sorted[0].OverallScore
		for _, r := range sorted {
			sum += r.OverallScore
			if r.OverallScore > highest {
				highest = r.OverallScore
			}
			m.ProgressOverTime = append(m.ProgressOverTime, ScorePoint{Date: r.CreatedAt, Score: r.OverallScore})
			resultByInterview[r.InterviewID] = r
			scoreBySession[r.SessionID] = r.OverallScore
		}
		avg := round1(sum / float64(len(sorted)))
		m.AverageScore = &avg
		m.HighestScore = &highest
		last := sorted[len(sorted)-1].CreatedAt
		m.RecentActivity.LastResultDate = &last
	}

	// Skills count once per session whose interview has a result, then scale to the most frequent.
	interviewByID := map[uuid.UUID]*types.Interview{}
	for _, iv := range interviews {
		interviewByID[iv.ID] = iv
	}
	counts := map[string]int{}
	maxCount := 1
	for _, sess := range sessions {
		iv := interviewByID[sess.InterviewID]
		if iv == nil || iv.JobListing == nil || resultByInterview[iv.ID] == nil {
			continue
		}
		for _, sk := range skillsOf(iv.JobListing.Skills) {
			counts[sk]++
			if counts[sk] > maxCount {
				maxCount = counts[sk]
			}
		}
	}
	for sk, n := range counts {
		m.SkillBreakdown[sk] = int(math.Round(float64(n) / float64(maxCount) * 100))
	}

	// A question type's average is the mean overall score of scored sessions that answered that type.
	type acc struct {
		count    int
		sessions map[uuid.UUID]bool
	}
	byType := map[types.QuestionType]*acc{
		types.QuestionVerbal: {sessions: map[uuid.UUID]bool{}},
		types.QuestionCode:   {sessions: map[uuid.UUID]bool{}},
	}
	for _, r := range responses {
		if r.Question == nil {
			continue
		}
		a := byType[r.Question.Type]
		if a == nil {
			continue
		}
		a.count++
		a.sessions[r.SessionID] = true
	}
	for qtype, a := range byType {
		stats := QuestionTypeStats{Count: a.count}
		sum, n := 0.0, 0
		for sid := range a.sessions {
			if score, ok := scoreBySession[sid]; ok {
				sum += score
				n++
			}
		}
		if n > 0 {
			avg := round1(sum / float64(n))
			stats.AverageScore = &avg
		}
		m.QuestionTypes[questionTypeKey(qtype)] = stats
	}
	return m
}

func questionTypeKey(t types.QuestionType) string {
	if t == types.QuestionCode {
		return "code"
	}
	return "verbal"
}
