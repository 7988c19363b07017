package app

import (
	"fmt"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/platform/openai"
	"github.com/yungbote/interviewprep-backend/internal/realtime/bus"
)

type Clients struct {
	SSEBus       bus.Bus
	OpenaiClient openai.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var sseBus bus.Bus
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	// Openai
	var openaiClient openai.Client
	if cfg.OpenAI.APIKey != "" {
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			if sseBus != nil {
				_ = sseBus.Close()
			}
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		openaiClient = c
	}

	return Clients{
		SSEBus:       sseBus,
		OpenaiClient: openaiClient,
	}, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
