package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		JobListingHandler: handlers.JobListing,
		ResumeHandler:     handlers.Resume,
		InterviewHandler:  handlers.Interview,
		SessionHandler:    handlers.Session,
		ResultHandler:     handlers.Result,
		JobHandler:        handlers.Job,
		RealtimeHandler:   handlers.Realtime,
	})
}
