package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
)

// SubjectController serves the subject catalog
type SubjectController struct {
	accessService *services.AccessService
	logger        zerolog.Logger
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(accessService *services.AccessService, logger zerolog.Logger) *SubjectController {
	return &SubjectController{
		accessService: accessService,
		logger:        logger,
	}
}

// GetAllSubjects godoc
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubjectListResponse}
// @Router /subjects [get]
func (c *SubjectController) GetAllSubjects(ctx *gin.Context) {
	subjects := c.accessService.AllSubjects(ctx.Request.Context())
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSubjectListResponse(subjects)))
}

// GetSubjectDetails godoc
// @Summary Subject details
// @Description Lists every subject row with the ID; the list is empty for an unknown ID
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubjectListResponse}
// @Router /subjects/{id} [get]
func (c *SubjectController) GetSubjectDetails(ctx *gin.Context) {
	subjectID := models.NewID(ctx.Param("id"))
	subjects := c.accessService.SubjectDetails(ctx.Request.Context(), subjectID)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSubjectListResponse(subjects)))
}
