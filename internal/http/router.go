package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/interviewprep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/interviewprep-backend/internal/http/middleware"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	JobListingHandler *httpH.JobListingHandler
	ResumeHandler     *httpH.ResumeHandler
	InterviewHandler  *httpH.InterviewHandler
	SessionHandler    *httpH.SessionHandler
	ResultHandler     *httpH.ResultHandler
	JobHandler        *httpH.JobHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	} else {
		api.Use(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "authentication is not configured", "code": "unauthorized"},
			})
		})
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	}

	// Job listings
	if cfg.JobListingHandler != nil {
		api.POST("/job-listings", cfg.JobListingHandler.Create)
		api.GET("/job-listings", cfg.JobListingHandler.List)
		api.GET("/job-listings/:id", cfg.JobListingHandler.Get)
	}

	// Resumes
	if cfg.ResumeHandler != nil {
		api.POST("/resumes", cfg.ResumeHandler.Create)
		api.GET("/resumes", cfg.ResumeHandler.List)
		api.GET("/resumes/:id", cfg.ResumeHandler.Get)
	}

	// Interviews
	if cfg.InterviewHandler != nil {
		api.POST("/interviews", cfg.InterviewHandler.Create)
		api.GET("/interviews", cfg.InterviewHandler.List)
		api.GET("/interviews/:id", cfg.InterviewHandler.Get)
		api.GET("/interviews/:id/questions", cfg.InterviewHandler.ListQuestions)
	}

	// Sessions
	if cfg.SessionHandler != nil {
		api.POST("/interview-sessions", cfg.SessionHandler.Create)
		api.GET("/interview-sessions", cfg.SessionHandler.List)
		api.GET("/interview-sessions/:id", cfg.SessionHandler.Get)
		api.PUT("/interview-sessions/:id", cfg.SessionHandler.UpdateState)
		api.PUT("/interview-sessions/:id/end", cfg.SessionHandler.End)
		api.POST("/interview-sessions/:id/responses", cfg.SessionHandler.SubmitResponse)
		api.GET("/interview-sessions/:id/responses", cfg.SessionHandler.ListResponses)
		api.POST("/interview-sessions/:id/chat", cfg.SessionHandler.PostChat)
		api.GET("/interview-sessions/:id/chat", cfg.SessionHandler.ChatHistory)
		api.GET("/interview-sessions/:id/result", cfg.SessionHandler.Result)
	}

	// Results
	if cfg.ResultHandler != nil {
		api.GET("/interview-results", cfg.ResultHandler.List)
		api.GET("/interview-results/:id", cfg.ResultHandler.Get)
		api.GET("/metrics/user", cfg.ResultHandler.UserMetrics)
	}

	// Job
	if cfg.JobHandler != nil {
		api.GET("/jobs/:id", cfg.JobHandler.GetJob)
	}

	return r
}
