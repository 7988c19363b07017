package result_aggregate

import (
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type Pipeline struct {
	log        *logger.Logger
	aggregator services.ResultAggregator
}

func New(baseLog *logger.Logger, aggregator services.ResultAggregator) *Pipeline {
	return &Pipeline{
		log:        baseLog.With("job", services.JobTypeResultAggregate),
		aggregator: aggregator,
	}
}

func (p *Pipeline) Type() string { return services.JobTypeResultAggregate }
