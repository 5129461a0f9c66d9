// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// AuthController handles login, logout and session inspection
type AuthController struct {
	accessService *services.AccessService
	jwtService    *auth.JWTService
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(accessService *services.AccessService, jwtService *auth.JWTService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		accessService: accessService,
		jwtService:    jwtService,
		logger:        logger,
	}
}

// Login handles user login
// @Summary Log in
// @Description Logs in with a student ID or "admin" and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login name"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.accessService.Login(ctx.Request.Context(), req.UserID)
	if err != nil {
		c.logger.Warn().Err(err).Str("userId", req.UserID).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	token, expiresIn, err := c.jwtService.GenerateToken(session)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to issue access token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTokenResponse(token, expiresIn, session)))
}

// Logout handles user logout
// @Summary Log out
// @Description Revokes the access token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Logged out"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if claims, ok := middleware.GetClaims(ctx); ok {
		c.jwtService.Revoke(claims)
	}

	session := c.accessService.Logout()
	c.logger.Info().Msg("Session logged out")

	resp := dto.NewSuccessResponse(dto.NewSessionResponse(session))
	resp.Message = "Logged out successfully"
	ctx.JSON(http.StatusOK, resp)
}

// Session returns the current session
// @Summary Current session
// @Description Describes the session carried by the access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	session, _ := middleware.GetSession(ctx)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSessionResponse(session)))
}
