package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/dtos"
	"github.com/justsurfingit/joblocal/internal/services"
)

const maxResumeBytes = 5 << 20

// JobHandler serves the job directory and the apply flow.
type JobHandler struct {
	LLMService   *services.LLMService
	JobService   *services.JobService
	Applications *services.ApplicationService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(llm *services.LLMService, j *services.JobService, a *services.ApplicationService) *JobHandler {
	return &JobHandler{
		LLMService:   llm,
		JobService:   j,
		Applications: a,
	}
}

// ParseJob is the POST /jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	draft, err := h.LLMService.ExtractJobDraft(c.Request.Context(), req.RawHTML)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// creating the job
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetJob(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), currentUser(c), idParam(c, "id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), currentUser(c), idParam(c, "id")); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "Job removed")
}

// readResume pulls the optional "resume" file out of a multipart apply form.
func readResume(c *gin.Context) (*services.ResumeUpload, error) {
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxResumeBytes {
		return nil, errors.New("Resume must be 5MB or smaller")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxResumeBytes))
	if err != nil {
		return nil, err
	}
	return &services.ResumeUpload{Name: fh.Filename, Data: data}, nil
}

// Apply accepts a multipart form (coverLetter, resume) or a JSON body with
// just a cover letter.
func (h *JobHandler) Apply(c *gin.Context) {
	var coverLetter string
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		var body struct {
			CoverLetter string `json:"coverLetter"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badInput(c, err)
			return
		}
		coverLetter = body.CoverLetter
	} else {
		coverLetter = c.PostForm("coverLetter")
	}

	resume, err := readResume(c)
	if err != nil {
		badInput(c, err)
		return
	}
	app, err := h.Applications.Apply(c.Request.Context(), currentUser(c), idParam(c, "id"), coverLetter, resume)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *JobHandler) SaveJob(c *gin.Context) {
	saved, err := h.JobService.ToggleSave(c.Request.Context(), currentUser(c), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	resp := dtos.SaveJobResponse{Message: "Job removed from saved jobs", Saved: saved}
	if saved {
		resp.Message = "Job saved successfully"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) AddReview(c *gin.Context) {
	var req dtos.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	review, err := h.JobService.AddReview(c.Request.Context(), currentUser(c), idParam(c, "id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *JobHandler) ListReviews(c *gin.Context) {
	reviews, err := h.JobService.ListReviews(c.Request.Context(), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	apps, err := h.JobService.ListApplications(c.Request.Context(), currentUser(c), idParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
