package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	httpH "github.com/yungbote/interviewprep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/interviewprep-backend/internal/http/middleware"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

const routerSecret = "router-test-secret"

type apiHarness struct {
	engine     *gin.Engine
	aggregator services.ResultAggregator
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.NewRepos(db, log)
	notify := services.NewSessionNotifier(nil, nil)
	jobs := services.NewJobService(db, log, r.JobRuns, services.NewJobNotifier(nil))
	chat := services.NewChatService(db, log, r, jobs, notify)
	results := services.NewResultService(log, r)
	scorer := services.ScoringFunc(func(qs []*types.Question, rs []*types.Response) (services.ResultScores, error) {
		return services.ResultScores{
			SubScores: services.SubScores{
				ContentRelevance: 80, CommunicationSkill: 80, ResponseConsistency: 80,
				DepthOfResponse: 80, CriticalThinking: 80, BehavioralCompetency: 80,
			},
			PerformanceSummary: "summary",
			DetailedFeedback:   "feedback",
		}, nil
	})

	engine := NewRouter(RouterConfig{
		Log:               log,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, routerSecret),
		HealthHandler:     httpH.NewHealthHandler(db),
		JobListingHandler: httpH.NewJobListingHandler(services.NewJobListingService(log, r.JobListings)),
		ResumeHandler:     httpH.NewResumeHandler(services.NewResumeService(log, r.Resumes)),
		InterviewHandler:  httpH.NewInterviewHandler(services.NewInterviewService(db, log, r, services.TemplateQuestionGenerator{})),
		SessionHandler: httpH.NewSessionHandler(
			services.NewSessionService(db, log, r, jobs, notify, services.SessionDefaults{CameraOn: true, MicOn: true}),
			services.NewResponseService(db, log, r, notify, nil),
			chat,
			results,
		),
		ResultHandler:   httpH.NewResultHandler(results, services.NewUserMetricsService(log, r)),
		JobHandler:      httpH.NewJobHandler(jobs),
		RealtimeHandler: httpH.NewRealtimeHandler(log, realtime.NewSSEHub(log)),
	})
	return &apiHarness{
		engine:     engine,
		aggregator: services.NewResultAggregator(db, log, r, scorer, notify, nil),
	}
}

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(routerSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// do sends body as JSON and decodes the reply into a generic map.
func (h *apiHarness) do(t *testing.T, userID uuid.UUID, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func field(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("path %v: %T is not an object", keys, cur)
		}
		cur = obj[k]
	}
	return cur
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	code, _ := field(t, body, "error", "code").(string)
	return code
}

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	user := uuid.New()

	status, body := h.do(t, user, nethttp.MethodPost, "/api/job-listings", map[string]any{
		"title":   "Frontend Engineer",
		"company": "Acme",
		"skills":  []string{"React", "TypeScript"},
	})
	if status != nethttp.StatusCreated {
		t.Fatalf("create listing: %d %v", status, body)
	}
	listingID := field(t, body, "job_listing", "id").(string)

	status, body = h.do(t, user, nethttp.MethodPost, "/api/interviews", map[string]any{"job_listing_id": listingID})
	if status != nethttp.StatusCreated {
		t.Fatalf("create interview: %d %v", status, body)
	}
	interviewID := field(t, body, "interview", "id").(string)

	status, body = h.do(t, user, nethttp.MethodGet, "/api/interviews/"+interviewID+"/questions", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("questions: %d %v", status, body)
	}
	questions := field(t, body, "questions").([]any)
	if len(questions) == 0 {
		t.Fatal("no questions generated")
	}
	var verbalID string
	for _, q := range questions {
		if q.(map[string]any)["type"] == "VERBAL" {
			verbalID = q.(map[string]any)["id"].(string)
			break
		}
	}

	status, body = h.do(t, user, nethttp.MethodPost, "/api/interview-sessions", map[string]any{"interview_id": interviewID})
	if status != nethttp.StatusCreated {
		t.Fatalf("create session: %d %v", status, body)
	}
	sessionID := field(t, body, "session", "id").(string)
	if got := field(t, body, "session", "status"); got != "PENDING" {
		t.Fatalf("new session status: %v", got)
	}

	status, body = h.do(t, user, nethttp.MethodPost, "/api/interview-sessions/"+sessionID+"/responses", map[string]any{
		"question_id": verbalID,
		"content":     "I would profile first, then memoize the expensive selectors.",
	})
	if status != nethttp.StatusCreated {
		t.Fatalf("submit: %d %v", status, body)
	}
	status, body = h.do(t, user, nethttp.MethodPost, "/api/interview-sessions/"+sessionID+"/responses", map[string]any{
		"question_id": verbalID,
		"content":     "again",
	})
	if status != nethttp.StatusConflict || errorCode(t, body) != "conflict" {
		t.Fatalf("duplicate submit: %d %v", status, body)
	}

	status, body = h.do(t, user, nethttp.MethodPut, "/api/interview-sessions/"+sessionID+"/end", nil)
	if status != nethttp.StatusOK || field(t, body, "session", "status") != "ENDED" {
		t.Fatalf("end: %d %v", status, body)
	}
	status, body = h.do(t, user, nethttp.MethodPut, "/api/interview-sessions/"+sessionID+"/end", nil)
	if status != nethttp.StatusConflict || errorCode(t, body) != "invalid_state" {
		t.Fatalf("second end: %d %v", status, body)
	}

	status, _ = h.do(t, user, nethttp.MethodGet, "/api/interview-sessions/"+sessionID+"/result", nil)
	if status != nethttp.StatusNotFound {
		t.Fatalf("result before processing: %d", status)
	}

	if _, err := h.aggregator.Aggregate(dbctx.Context{Ctx: context.Background()}, uuid.MustParse(sessionID)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	status, body = h.do(t, user, nethttp.MethodGet, "/api/interview-sessions/"+sessionID+"/result", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("result: %d %v", status, body)
	}
	if got := field(t, body, "result", "overall_score"); got != 80.0 {
		t.Fatalf("overall: %v", got)
	}

	status, body = h.do(t, user, nethttp.MethodGet, "/api/metrics/user", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("metrics: %d %v", status, body)
	}
	if got := field(t, body, "metrics", "total_interviews"); got != 1.0 {
		t.Fatalf("total_interviews: %v", got)
	}
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	h := newAPIHarness(t)
	owner, other := uuid.New(), uuid.New()

	_, body := h.do(t, owner, nethttp.MethodPost, "/api/job-listings", map[string]any{"title": "Backend Engineer", "company": "Acme"})
	listingID := field(t, body, "job_listing", "id").(string)
	_, body = h.do(t, owner, nethttp.MethodPost, "/api/interviews", map[string]any{"job_listing_id": listingID})
	interviewID := field(t, body, "interview", "id").(string)
	_, body = h.do(t, owner, nethttp.MethodPost, "/api/interview-sessions", map[string]any{"interview_id": interviewID})
	sessionID := field(t, body, "session", "id").(string)

	for _, path := range []string{
		"/api/interview-sessions/" + sessionID,
		"/api/interview-sessions/" + sessionID + "/chat",
		"/api/interviews/" + interviewID,
	} {
		status, body := h.do(t, other, nethttp.MethodGet, path, nil)
		if status != nethttp.StatusNotFound || errorCode(t, body) != "not_found" {
			t.Fatalf("%s as other user: %d %v", path, status, body)
		}
	}
	status, body := h.do(t, other, nethttp.MethodPut, "/api/interview-sessions/"+sessionID+"/end", nil)
	if status != nethttp.StatusNotFound {
		t.Fatalf("end as other user: %d %v", status, body)
	}
}

func TestRequestValidation(t *testing.T) {
	h := newAPIHarness(t)
	user := uuid.New()

	status, _ := h.do(t, uuid.Nil, nethttp.MethodGet, "/api/interview-sessions", nil)
	if status != nethttp.StatusUnauthorized {
		t.Fatalf("no token: %d", status)
	}
	status, body := h.do(t, user, nethttp.MethodGet, "/api/interview-sessions/not-a-uuid", nil)
	if status != nethttp.StatusBadRequest || errorCode(t, body) != "invalid_id" {
		t.Fatalf("bad id: %d %v", status, body)
	}
	status, body = h.do(t, user, nethttp.MethodPost, "/api/job-listings", map[string]any{"title": "   "})
	if status != nethttp.StatusBadRequest || errorCode(t, body) != "validation" {
		t.Fatalf("blank title: %d %v", status, body)
	}
	status, _ = h.do(t, uuid.Nil, nethttp.MethodGet, "/healthcheck", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("healthcheck: %d", status)
	}
}
