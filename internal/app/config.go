package app

import (
	"time"

	"github.com/yungbote/interviewprep-backend/internal/data/db"
	"github.com/yungbote/interviewprep-backend/internal/jobs/worker"
	"github.com/yungbote/interviewprep-backend/internal/platform/envutil"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/platform/openai"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type Config struct {
	Port         string
	ServiceName  string
	Environment  string
	JWTSecretKey string
	CORSOrigins  string

	// RunServer and RunWorker choose the process role; both default to true for a single binary.
	RunServer bool
	RunWorker bool

	RedisAddr    string
	RedisChannel string

	ScoringBandsFile string
	OpenAI           openai.Config

	DB              db.Config
	Worker          worker.Config
	SessionDefaults services.SessionDefaults
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:             envutil.String("PORT", "8080"),
		ServiceName:      envutil.String("OTEL_SERVICE_NAME", "interviewprep-backend"),
		Environment:      envutil.String("APP_ENV", "development"),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:      envutil.String("CORS_ORIGINS", ""),
		RunServer:        envutil.Bool("RUN_SERVER", true),
		RunWorker:        envutil.Bool("RUN_WORKER", true),
		RedisAddr:        envutil.String("REDIS_ADDR", ""),
		RedisChannel:     envutil.String("REDIS_CHANNEL", "interviewprep:sse"),
		ScoringBandsFile: envutil.String("SCORING_BANDS_FILE", ""),
		OpenAI: openai.Config{
			APIKey:  envutil.String("OPENAI_API_KEY", ""),
			Model:   envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: envutil.String("OPENAI_BASE_URL", ""),
			Timeout: envutil.Duration("OPENAI_TIMEOUT", 30*time.Second),
		},
		DB:              db.ConfigFromEnv(),
		Worker:          worker.ConfigFromEnv(),
		SessionDefaults: services.SessionDefaultsFromEnv(),
	}
	if cfg.JWTSecretKey == "" && cfg.RunServer {
		log.Warn("JWT_SECRET_KEY is empty; every API request will be rejected")
	}
	log.Info("Config loaded",
		"port", cfg.Port,
		"db_driver", cfg.DB.Driver,
		"run_server", cfg.RunServer,
		"run_worker", cfg.RunWorker,
		"redis", cfg.RedisAddr != "",
		"openai", cfg.OpenAI.APIKey != "",
	)
	return cfg
}
