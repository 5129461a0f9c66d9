package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// StudentController serves the logged-in student's operations
type StudentController struct {
	accessService *services.AccessService
	logger        zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(accessService *services.AccessService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		accessService: accessService,
		logger:        logger,
	}
}

// GetAvailableSubjects godoc
// @Summary Subjects not yet registered
// @Description Lists subjects the student has no enrollment for. Eligibility is not applied.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubjectListResponse}
// @Failure 403 {object} dto.APIResponse "Not a student session"
// @Router /students/me/available-subjects [get]
func (c *StudentController) GetAvailableSubjects(ctx *gin.Context) {
	student, ok := middleware.GetStudent(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotStudentSession)
		return
	}

	subjects := c.accessService.AvailableSubjects(ctx.Request.Context(), student)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSubjectListResponse(subjects)))
}

// GetProfile godoc
// @Summary Student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.StudentProfile}
// @Failure 403 {object} dto.APIResponse "Not a student session"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/me/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	student, ok := middleware.GetStudent(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotStudentSession)
		return
	}

	profile, found := c.accessService.Profile(ctx.Request.Context(), student)
	if !found {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// CheckEligibility godoc
// @Summary Check eligibility
// @Description Runs the age, capacity and prerequisite checks without registering
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Outcome}
// @Failure 403 {object} dto.APIResponse "Not a student session"
// @Router /students/me/eligibility/{subjectId} [get]
func (c *StudentController) CheckEligibility(ctx *gin.Context) {
	student, ok := middleware.GetStudent(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotStudentSession)
		return
	}

	outcome := c.accessService.Eligibility(ctx.Request.Context(), student, models.NewID(ctx.Param("subjectId")))
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(outcome))
}

// RegisterSubject godoc
// @Summary Register for a subject
// @Description Rule violations are reported in the outcome with a 200 status
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterSubjectRequest true "Subject to register for"
// @Success 200 {object} dto.APIResponse{data=models.Outcome}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 403 {object} dto.APIResponse "Not a student session"
// @Router /students/me/registrations [post]
func (c *StudentController) RegisterSubject(ctx *gin.Context) {
	student, ok := middleware.GetStudent(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotStudentSession)
		return
	}

	var req dto.RegisterSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome, err := c.accessService.Register(ctx.Request.Context(), student, models.NewID(req.SubjectID))
	if err != nil {
		c.logger.Error().Err(err).Str("studentId", student.ID().String()).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(outcome))
}
