package services

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type CreateJobListingInput struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	JobType     string   `json:"job_type"`
	Salary      string   `json:"salary"`
	SourceURL   string   `json:"source_url"`
}

type JobListingService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, in CreateJobListingInput) (*types.JobListing, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.JobListing, error)
	Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.JobListing, error)
}

type jobListingService struct {
	log  *logger.Logger
	repo repos.JobListingRepo
}

func NewJobListingService(baseLog *logger.Logger, repo repos.JobListingRepo) JobListingService {
	return &jobListingService{log: baseLog.With("service", "JobListingService"), repo: repo}
}

func (s *jobListingService) Create(dbc dbctx.Context, userID uuid.UUID, in CreateJobListingInput) (*types.JobListing, error) {
	const op = "JobListingService.Create"
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if title == "" || company == "" {
		return nil, apperr.Validation(op, "title and company are required")
	}
	skills, err := skillsJSON(in.Skills)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	listing := &types.JobListing{
		UserID:      userID,
		Title:       title,
		Company:     company,
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Skills:      skills,
		Experience:  strings.TrimSpace(in.Experience),
		JobType:     strings.TrimSpace(in.JobType),
		Salary:      strings.TrimSpace(in.Salary),
		SourceURL:   strings.TrimSpace(in.SourceURL),
	}
	return s.repo.Create(dbc, listing)
}

func (s *jobListingService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.JobListing, error) {
	return s.repo.ListByUser(dbc, userID)
}

func (s *jobListingService) Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.JobListing, error) {
	listing, err := s.repo.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound("JobListingService.Get", "job listing not found")
	}
	return listing, nil
}

// skillsJSON trims, drops blanks and de-duplicates skills, keeping first-seen order.
func skillsJSON(skills []string) (datatypes.JSON, error) {
	out := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		key := strings.ToLower(sk)
		if sk == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// skillsOf decodes a skills column; malformed values read as empty.
func skillsOf(raw datatypes.JSON) []string {
	var out []string
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
