package repos

import (
	"github.com/yungbote/interviewprep-backend/internal/data/repos/interview"
	"github.com/yungbote/interviewprep-backend/internal/data/repos/jobs"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type JobListingRepo = interview.JobListingRepo
type ResumeRepo = interview.ResumeRepo
type InterviewRepo = interview.InterviewRepo
type QuestionRepo = interview.QuestionRepo
type SessionRepo = interview.SessionRepo
type ResponseRepo = interview.ResponseRepo
type ChatMessageRepo = interview.ChatMessageRepo
type ResultRepo = interview.ResultRepo

type JobRunRepo = jobs.JobRunRepo

func NewJobListingRepo(db *gorm.DB, baseLog *logger.Logger) JobListingRepo {
	return interview.NewJobListingRepo(db, baseLog)
}
func NewResumeRepo(db *gorm.DB, baseLog *logger.Logger) ResumeRepo {
	return interview.NewResumeRepo(db, baseLog)
}
func NewInterviewRepo(db *gorm.DB, baseLog *logger.Logger) InterviewRepo {
	return interview.NewInterviewRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return interview.NewQuestionRepo(db, baseLog)
}
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return interview.NewSessionRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return interview.NewResponseRepo(db, baseLog)
}
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return interview.NewChatMessageRepo(db, baseLog)
}
func NewResultRepo(db *gorm.DB, baseLog *logger.Logger) ResultRepo {
	return interview.NewResultRepo(db, baseLog)
}
func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}

// Repos bundles every repository the services need.
type Repos struct {
	JobListings  JobListingRepo
	Resumes      ResumeRepo
	Interviews   InterviewRepo
	Questions    QuestionRepo
	Sessions     SessionRepo
	Responses    ResponseRepo
	ChatMessages ChatMessageRepo
	Results      ResultRepo
	JobRuns      JobRunRepo
}

func NewRepos(db *gorm.DB, baseLog *logger.Logger) Repos {
	return Repos{
		JobListings:  NewJobListingRepo(db, baseLog),
		Resumes:      NewResumeRepo(db, baseLog),
		Interviews:   NewInterviewRepo(db, baseLog),
		Questions:    NewQuestionRepo(db, baseLog),
		Sessions:     NewSessionRepo(db, baseLog),
		Responses:    NewResponseRepo(db, baseLog),
		ChatMessages: NewChatMessageRepo(db, baseLog),
		Results:      NewResultRepo(db, baseLog),
		JobRuns:      NewJobRunRepo(db, baseLog),
	}
}
