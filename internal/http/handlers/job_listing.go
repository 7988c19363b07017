package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type JobListingHandler struct {
	listings services.JobListingService
}

func NewJobListingHandler(listings services.JobListingService) *JobListingHandler {
	return &JobListingHandler{listings: listings}
}

// POST /api/job-listings
func (h *JobListingHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.CreateJobListingInput
	if !bindJSON(c, &req) {
		return
	}
	listing, err := h.listings.Create(requestDBC(c), userID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job_listing": listing})
}

// GET /api/job-listings
func (h *JobListingHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listings, err := h.listings.List(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_listings": listings})
}

// GET /api/job-listings/:id
func (h *JobListingHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	listing, err := h.listings.Get(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job_listing": listing})
}
