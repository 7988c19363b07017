package app

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	"github.com/yungbote/interviewprep-backend/internal/jobs/pipeline/chat_reply"
	"github.com/yungbote/interviewprep-backend/internal/jobs/pipeline/result_aggregate"
	jobrt "github.com/yungbote/interviewprep-backend/internal/jobs/runtime"
	"github.com/yungbote/interviewprep-backend/internal/jobs/worker"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type Services struct {
	JobListings services.JobListingService
	Resumes     services.ResumeService
	Interviews  services.InterviewService
	Sessions    services.SessionService
	Responses   services.ResponseService
	Chat        services.ChatService
	Aggregator  services.ResultAggregator
	Results     services.ResultService
	UserMetrics services.UserMetricsService

	JobNotifier services.JobNotifier
	JobService  services.JobService
	JobRegistry *jobrt.Registry
	JobWorker   *worker.Worker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Repos, sseHub *realtime.SSEHub, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter
	switch {
	case clients.SSEBus != nil:
		// Every API instance forwards the bus into its own hub.
		emitter = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	case cfg.RunServer:
		emitter = &services.HubEmitter{Hub: sseHub}
	default:
		return Services{}, fmt.Errorf("worker requires REDIS_ADDR to publish SSE events")
	}

	jobNotifier := services.NewJobNotifier(emitter)
	sessionNotifier := services.NewSessionNotifier(emitter, metrics)
	jobService := services.NewJobService(db, log, r.JobRuns, jobNotifier)

	bands := services.DefaultScoringBands()
	if cfg.ScoringBandsFile != "" {
		b, err := services.LoadScoringBands(cfg.ScoringBandsFile)
		if err != nil {
			return Services{}, fmt.Errorf("load scoring bands: %w", err)
		}
		bands = b
	}
	scorer := services.NewBandScorer(bands, rand.NewSource(time.Now().UnixNano()))

	var (
		generator services.QuestionGenerator  = services.TemplateQuestionGenerator{}
		responder services.CompanionResponder = services.RuleResponder{}
	)
	if clients.OpenaiClient != nil {
		generator = services.NewLLMQuestionGenerator(clients.OpenaiClient, log)
		responder = services.NewLLMResponder(clients.OpenaiClient, log)
	}

	chatService := services.NewChatService(db, log, r, jobService, sessionNotifier)
	aggregator := services.NewResultAggregator(db, log, r, scorer, sessionNotifier, metrics)

	jobRegistry := jobrt.NewRegistry()
	if err := jobRegistry.Register(result_aggregate.New(log, aggregator)); err != nil {
		return Services{}, err
	}
	if err := jobRegistry.Register(chat_reply.New(log, r.ChatMessages, chatService, responder)); err != nil {
		return Services{}, err
	}

	var jobWorker *worker.Worker
	if cfg.RunWorker {
		jobWorker = worker.NewWorker(db, log, r.JobRuns, jobRegistry, jobNotifier, metrics, cfg.Worker)
	}

	return Services{
		JobListings: services.NewJobListingService(log, r.JobListings),
		Resumes:     services.NewResumeService(log, r.Resumes),
		Interviews:  services.NewInterviewService(db, log, r, generator),
		Sessions:    services.NewSessionService(db, log, r, jobService, sessionNotifier, cfg.SessionDefaults),
		Responses:   services.NewResponseService(db, log, r, sessionNotifier, metrics),
		Chat:        chatService,
		Aggregator:  aggregator,
		Results:     services.NewResultService(log, r),
		UserMetrics: services.NewUserMetricsService(log, r),
		JobNotifier: jobNotifier,
		JobService:  jobService,
		JobRegistry: jobRegistry,
		JobWorker:   jobWorker,
	}, nil
}
