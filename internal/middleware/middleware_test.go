package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "middleware-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "registrar-test",
	})
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	protected := router.Group("/", m.JWTAuth())
	protected.GET("/session", func(c *gin.Context) {
		session, _ := GetSession(c)
		c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSessionResponse(session)))
	})
	protected.GET("/admin", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	protected.GET("/me", m.StudentRequired(), func(c *gin.Context) {
		student, ok := GetStudent(c)
		require.True(t, ok)
		c.String(http.StatusOK, student.ID().String())
	})

	return router, jwtService
}

func token(t *testing.T, svc *auth.JWTService, session auth.Session) string {
	t.Helper()
	tok, _, err := svc.GenerateToken(session)
	require.NoError(t, err)
	return tok
}

func do(router http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestJWTAuth(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := do(router, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, rec).Code)

	rec = do(router, "/session", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, "/session", "Bearer "+token(t, svc, auth.StudentSession("42")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"studentId":"42"`)

	rec = do(router, "/session?token="+token(t, svc, auth.AdminSession()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	router, svc := newTestRouter(t)
	tok := token(t, svc, auth.StudentSession("42"))

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	svc.Revoke(claims)

	rec := do(router, "/session", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has been logged out", decodeError(t, rec).Details)
}

func TestRoleRequired(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := do(router, "/admin", "Bearer "+token(t, svc, auth.AdminSession()))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, "/admin", "Bearer "+token(t, svc, auth.StudentSession("42")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, rec).Code)
}

func TestStudentRequired(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := do(router, "/me", "Bearer "+token(t, svc, auth.StudentSession("0042")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0042", rec.Body.String())

	rec = do(router, "/me", "Bearer "+token(t, svc, auth.AdminSession()))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrorCodeNotStudentSession, decodeError(t, rec).Code)
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrNotStudentSession, http.StatusForbidden, dto.ErrorCodeNotStudentSession},
		{fmt.Errorf("append: %w", apperrors.ErrStudentAlreadyExists), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrSubjectNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewValidationError("capacity must be greater than or equal to -1"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{fmt.Errorf("save tables: %w", assert.AnError), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		status, detail := errorDetailFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, detail.Code, tt.err.Error())
	}

	_, detail := errorDetailFor(apperrors.NewValidationError("capacity must be greater than or equal to -1"))
	assert.Equal(t, "capacity must be greater than or equal to -1", detail.Message)
}

func TestBindJSON(t *testing.T) {
	RegisterBindingRules()

	router := gin.New()
	router.POST("/grades", func(c *gin.Context) {
		var req dto.AddGradeRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/grades", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, post(`{"studentId":"1","subjectId":"S","grade":"A"}`).Code)

	rec := post(`{"studentId":"1","subjectId":"  ","grade":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "subjectId", detail.Field)

	rec = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, rec).Code)
}
