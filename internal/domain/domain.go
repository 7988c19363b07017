package domain

import (
	"github.com/yungbote/interviewprep-backend/internal/domain/interview"
	"github.com/yungbote/interviewprep-backend/internal/domain/jobs"
)

type JobListing = interview.JobListing
type Resume = interview.Resume
type Interview = interview.Interview
type Question = interview.Question
type QuestionType = interview.QuestionType
type InterviewSession = interview.Session
type SessionStatus = interview.SessionStatus
type Response = interview.Response
type ChatMessage = interview.ChatMessage
type InterviewResult = interview.Result
type ResultMetric = interview.ResultMetric

type JobRun = jobs.JobRun

const (
	SessionPending          = interview.SessionPending
	SessionOngoing          = interview.SessionOngoing
	SessionEnded            = interview.SessionEnded
	SessionResultProcessing = interview.SessionResultProcessing
	SessionResultProcessed  = interview.SessionResultProcessed
	SessionResultFailed     = interview.SessionResultFailed

	QuestionVerbal = interview.QuestionVerbal
	QuestionCode   = interview.QuestionCode
)

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&JobListing{},
		&Resume{},
		&Interview{},
		&Question{},
		&InterviewSession{},
		&Response{},
		&ChatMessage{},
		&InterviewResult{},
		&ResultMetric{},
		&JobRun{},
	}
}
