package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/interviewprep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/interviewprep-backend/internal/http/middleware"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	JobListing *httpH.JobListingHandler
	Resume     *httpH.ResumeHandler
	Interview  *httpH.InterviewHandler
	Session    *httpH.SessionHandler
	Result     *httpH.ResultHandler
	Job        *httpH.JobHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		JobListing: httpH.NewJobListingHandler(services.JobListings),
		Resume:     httpH.NewResumeHandler(services.Resumes),
		Interview:  httpH.NewInterviewHandler(services.Interviews),
		Session:    httpH.NewSessionHandler(services.Sessions, services.Responses, services.Chat, services.Results),
		Result:     httpH.NewResultHandler(services.Results, services.UserMetrics),
		Job:        httpH.NewJobHandler(services.JobService),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}
