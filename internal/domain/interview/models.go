package interview

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobListing struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Company     string         `gorm:"column:company;not null" json:"company"`
	Location    string         `gorm:"column:location" json:"location,omitempty"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Skills      datatypes.JSON `gorm:"column:skills;type:jsonb" json:"skills"`
	Experience  string         `gorm:"column:experience" json:"experience,omitempty"`
	JobType     string         `gorm:"column:job_type" json:"job_type,omitempty"`
	Salary      string         `gorm:"column:salary" json:"salary,omitempty"`
	SourceURL   string         `gorm:"column:source_url" json:"source_url,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (JobListing) TableName() string { return "job_listing" }

func (m *JobListing) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(m.Skills) == 0 {
		m.Skills = datatypes.JSON([]byte("[]"))
	}
	return nil
}

type Resume struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Content   string         `gorm:"column:content;type:text" json:"content,omitempty"`
	Skills    datatypes.JSON `gorm:"column:skills;type:jsonb" json:"skills"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Resume) TableName() string { return "resume" }

func (m *Resume) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(m.Skills) == 0 {
		m.Skills = datatypes.JSON([]byte("[]"))
	}
	return nil
}

// Interview is the immutable template a session is an attempt at.
type Interview struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	JobListingID uuid.UUID  `gorm:"type:uuid;not null;index" json:"job_listing_id"`
	ResumeID     *uuid.UUID `gorm:"type:uuid;index" json:"resume_id,omitempty"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	Description  string     `gorm:"column:description;type:text" json:"description,omitempty"`

	JobListing *JobListing `gorm:"foreignKey:JobListingID" json:"job_listing,omitempty"`
	Questions  []Question  `gorm:"foreignKey:InterviewID" json:"questions,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Interview) TableName() string { return "interview" }

func (m *Interview) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_question_interview_position,priority:1" json:"interview_id"`
	Position       int          `gorm:"column:position;not null;uniqueIndex:idx_question_interview_position,priority:2" json:"order"`
	Type           QuestionType `gorm:"column:type;not null" json:"type"`
	Content        string       `gorm:"column:content;type:text;not null" json:"content"`
	Category       string       `gorm:"column:category" json:"category,omitempty"`
	CodeSnippet    *string      `gorm:"column:code_snippet;type:text" json:"code_snippet,omitempty"`
	ExpectedAnswer *string      `gorm:"column:expected_answer;type:text" json:"expected_answer,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (m *Question) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Session struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID uuid.UUID     `gorm:"type:uuid;not null;index" json:"interview_id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Status      SessionStatus `gorm:"column:status;not null;index" json:"status"`
	StartedAt   time.Time     `gorm:"column:started_at;not null" json:"started_at"`
	EndedAt     *time.Time    `gorm:"column:ended_at" json:"ended_at,omitempty"`
	IsCameraOn  bool          `gorm:"column:is_camera_on;not null" json:"is_camera_on"`
	IsMicOn     bool          `gorm:"column:is_mic_on;not null" json:"is_mic_on"`
	// ResultError holds the last aggregation failure; it survives into RESULT_FAILED.
	ResultError string `gorm:"column:result_error;type:text" json:"result_error,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "interview_session" }

func (m *Session) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Response struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_response_session_question,priority:1" json:"session_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_response_session_question,priority:2;index" json:"question_id"`
	Content      string    `gorm:"column:content;type:text;not null" json:"content"`
	CodeResponse *string   `gorm:"column:code_response;type:text" json:"code_response,omitempty"`
	ResponseTime *int      `gorm:"column:response_time" json:"response_time,omitempty"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Response) TableName() string { return "response" }

func (m *Response) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index:idx_interview_chat_session_sent,priority:1" json:"session_id"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	IsFromUser bool      `gorm:"column:is_from_user;not null" json:"is_from_user"`
	SentAt     time.Time `gorm:"column:sent_at;not null;index:idx_interview_chat_session_sent,priority:2" json:"sent_at"`
}

func (ChatMessage) TableName() string { return "interview_chat_message" }

func (m *ChatMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	return nil
}

// Result is the single scored outcome per (interview, user).
type Result struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_interview_user,priority:1" json:"interview_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_interview_user,priority:2;index" json:"user_id"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	OverallScore              float64  `gorm:"column:overall_score;not null" json:"overall_score"`
	ContentRelevanceScore     float64  `gorm:"column:content_relevance_score;not null" json:"content_relevance_score"`
	CommunicationSkillScore   float64  `gorm:"column:communication_skill_score;not null" json:"communication_skill_score"`
	TechnicalCompetenceScore  *float64 `gorm:"column:technical_competence_score" json:"technical_competence_score"`
	ProblemSolvingScore       *float64 `gorm:"column:problem_solving_score" json:"problem_solving_score"`
	ResponseConsistencyScore  float64  `gorm:"column:response_consistency_score;not null" json:"response_consistency_score"`
	DepthOfResponseScore      float64  `gorm:"column:depth_of_response_score;not null" json:"depth_of_response_score"`
	CriticalThinkingScore     float64  `gorm:"column:critical_thinking_score;not null" json:"critical_thinking_score"`
	BehavioralCompetencyScore float64  `gorm:"column:behavioral_competency_score;not null" json:"behavioral_competency_score"`

	PerformanceSummary string `gorm:"column:performance_summary;type:text" json:"performance_summary"`
	DetailedFeedback   string `gorm:"column:detailed_feedback;type:text" json:"detailed_feedback"`
	ResponsesCounted   int    `gorm:"column:responses_counted;not null" json:"responses_counted"`

	Metrics   []ResultMetric `gorm:"foreignKey:ResultID" json:"metrics,omitempty"`
	Interview *Interview     `gorm:"foreignKey:InterviewID" json:"interview,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Result) TableName() string { return "interview_result" }

func (m *Result) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ResultMetric struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResultID    uuid.UUID `gorm:"type:uuid;not null;index" json:"result_id"`
	Position    int       `gorm:"column:position;not null" json:"-"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Score       float64   `gorm:"column:score;not null" json:"score"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
}

func (ResultMetric) TableName() string { return "interview_result_metric" }

func (m *ResultMetric) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
