package result_aggregate

import (
	"fmt"

	"github.com/google/uuid"

	jobrt "github.com/yungbote/interviewprep-backend/internal/jobs/runtime"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	sessionID, ok := jc.PayloadUUID("session_id")
	if !ok {
		jc.FailPermanent("validate", fmt.Errorf("missing session_id"))
		return nil
	}

	jc.Progress("aggregate", 10, "Scoring interview responses")
	res, err := p.aggregator.Aggregate(jc.DBC(), sessionID)
	if err != nil {
		switch apperr.CodeOf(err) {
		case apperr.CodeNotFound, apperr.CodeConflict, apperr.CodeInvalidState, apperr.CodeValidation:
			// Retrying cannot change the outcome. An ENDED session keeps its status;
			// one already in RESULT_PROCESSING moves to RESULT_FAILED.
			p.log.Warn("Result aggregation rejected", "session_id", sessionID, "error", err)
			p.recordFailure(jc, sessionID, err, true)
			jc.FailPermanent("aggregate", err)
			return nil
		}
		p.recordFailure(jc, sessionID, err, jc.FinalAttempt())
		jc.Fail("aggregate", err)
		return nil
	}

	jc.Succeed("done", map[string]any{
		"session_id":    sessionID.String(),
		"result_id":     res.ID.String(),
		"overall_score": res.OverallScore,
	})
	return nil
}

func (p *Pipeline) recordFailure(jc *jobrt.Context, sessionID uuid.UUID, err error, final bool) {
	if rerr := p.aggregator.RecordFailure(jc.DBC(), sessionID, err); rerr != nil {
		p.log.Warn("Record aggregation failure", "session_id", sessionID, "error", rerr)
	}
	if !final {
		return
	}
	if merr := p.aggregator.MarkFailed(jc.DBC(), sessionID, err); merr != nil {
		p.log.Error("Mark result failed", "session_id", sessionID, "error", merr)
	}
}
