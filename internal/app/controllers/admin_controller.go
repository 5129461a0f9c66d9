package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
)

// AdminController serves grade entry and record maintenance
type AdminController struct {
	accessService *services.AccessService
	logger        zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(accessService *services.AccessService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		accessService: accessService,
		logger:        logger,
	}
}

// AddGrade godoc
// @Summary Record a grade
// @Description Overwrites the grade of the student's enrollment in the subject
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddGradeRequest true "Grade entry"
// @Success 200 {object} dto.APIResponse{data=models.Outcome}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /admin/grades [post]
func (c *AdminController) AddGrade(ctx *gin.Context) {
	var req dto.AddGradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome, err := c.accessService.AddGrade(ctx.Request.Context(),
		models.NewID(req.StudentID), models.NewID(req.SubjectID), req.Grade)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to add grade")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(outcome))
}

// CreateStudent godoc
// @Summary Add a student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student record"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Student ID already exists"
// @Router /admin/students [post]
func (c *AdminController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student := req.ToModel()
	if err := c.accessService.AddStudent(ctx.Request.Context(), student); err != nil {
		c.logger.Warn().Err(err).Str("studentId", student.StudentID.String()).Msg("Failed to add student")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// CreateSubject godoc
// @Summary Add a subject
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject record"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Subject ID already exists"
// @Router /admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject := req.ToModel()
	if err := c.accessService.AddSubject(ctx.Request.Context(), subject); err != nil {
		c.logger.Warn().Err(err).Str("subjectId", subject.SubjectID.String()).Msg("Failed to add subject")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(subject))
}
