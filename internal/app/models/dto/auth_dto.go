package dto

import (
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// LoginRequest carries the login name: a student id or "admin"
type LoginRequest struct {
	UserID string `json:"userId" binding:"notblank" example:"66051054"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string          `json:"accessToken"`
	TokenType   string          `json:"tokenType" example:"Bearer"`
	ExpiresIn   int             `json:"expiresIn" example:"28800"`
	Role        models.RoleType `json:"role" example:"STUDENT"`
	StudentID   models.ID       `json:"studentId,omitempty" example:"66051054"`
}

// SessionResponse describes the session behind the current token
type SessionResponse struct {
	LoggedIn  bool            `json:"loggedIn" example:"true"`
	Role      models.RoleType `json:"role,omitempty" example:"STUDENT"`
	StudentID models.ID       `json:"studentId,omitempty" example:"66051054"`
}

// NewTokenResponse builds the login response for a session
func NewTokenResponse(token string, expiresIn int, session auth.Session) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Role:        session.Role(),
		StudentID:   session.StudentID,
	}
}

// NewSessionResponse describes a session
func NewSessionResponse(session auth.Session) SessionResponse {
	return SessionResponse{
		LoggedIn:  session.IsLoggedIn(),
		Role:      session.Role(),
		StudentID: session.StudentID,
	}
}
