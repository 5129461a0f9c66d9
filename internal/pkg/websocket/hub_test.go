package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/auth"
)

func TestClientVisibility(t *testing.T) {
	student := &Client{session: auth.StudentSession("1")}
	admin := &Client{session: auth.AdminSession()}

	ownGrade := models.Event{Type: models.EventGrade, StudentID: "1", SubjectID: "S", Grade: "A"}
	otherGrade := models.Event{Type: models.EventGrade, StudentID: "2", SubjectID: "S", Grade: "B"}
	otherRegistration := models.Event{Type: models.EventRegistration, StudentID: "2", SubjectID: "S", Enrollment: 4}
	studentAdded := models.Event{Type: models.EventStudentAdded, StudentID: "3"}
	subjectAdded := models.Event{Type: models.EventSubjectAdded, SubjectID: "NEW"}

	_, ok := student.visible(ownGrade)
	assert.True(t, ok)
	_, ok = student.visible(otherGrade)
	assert.False(t, ok)
	_, ok = student.visible(studentAdded)
	assert.False(t, ok)
	_, ok = student.visible(subjectAdded)
	assert.True(t, ok)

	seen, ok := student.visible(otherRegistration)
	require.True(t, ok)
	assert.Empty(t, seen.StudentID)
	assert.Equal(t, 4, seen.Enrollment)

	for _, e := range []models.Event{ownGrade, otherGrade, otherRegistration, studentAdded, subjectAdded} {
		seen, ok := admin.visible(e)
		assert.True(t, ok)
		assert.Equal(t, e, seen)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < publishBuffer+10; i++ {
			hub.Publish(models.Event{Type: models.EventSubjectAdded})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestHubStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "ws-secret", AccessTokenExp: time.Hour, TokenIssuer: "registrar-test"})
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/events/ws", authMiddleware.JWTAuth(), NewHandler(hub, zerolog.Nop()).HandleConnection)
	server := httptest.NewServer(router)
	defer server.Close()

	token, _, err := jwtService.GenerateToken(auth.StudentSession("1"))
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientsCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(models.Event{Type: models.EventGrade, StudentID: "2", SubjectID: "S", Grade: "B"})
	hub.Publish(models.Event{Type: models.EventGrade, StudentID: "1", SubjectID: "S", Grade: "A"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, models.EventGrade, event.Type)
	assert.Equal(t, models.ID("1"), event.StudentID)
	assert.Equal(t, "A", event.Grade)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientsCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubClosesConnectionsOfRevokedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "ws-secret", AccessTokenExp: time.Hour, TokenIssuer: "registrar-test"})
	jwtService.OnRevoke(hub.CloseToken)

	router := gin.New()
	router.GET("/events/ws", middleware.NewAuthMiddleware(jwtService).JWTAuth(), NewHandler(hub, zerolog.Nop()).HandleConnection)
	server := httptest.NewServer(router)
	defer server.Close()

	dial := func(session auth.Session) (*websocket.Conn, string) {
		token, _, err := jwtService.GenerateToken(session)
		require.NoError(t, err)
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/events/ws?token="+token, nil)
		require.NoError(t, err)
		return conn, token
	}

	loggedOut, token := dial(auth.StudentSession("1"))
	defer loggedOut.Close()
	stillIn, _ := dial(auth.StudentSession("1"))
	defer stillIn.Close()
	require.Eventually(t, func() bool { return hub.ClientsCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	jwtService.Revoke(claims)

	require.Eventually(t, func() bool { return hub.ClientsCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, loggedOut.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = loggedOut.ReadMessage()
	require.Error(t, err)

	hub.Publish(models.Event{Type: models.EventSubjectAdded, SubjectID: "NEW"})
	require.NoError(t, stillIn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := stillIn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "NEW")
}

func TestHubRejectsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "ws-secret", AccessTokenExp: time.Hour})

	router := gin.New()
	router.GET("/events/ws", middleware.NewAuthMiddleware(jwtService).JWTAuth(), NewHandler(hub, zerolog.Nop()).HandleConnection)
	server := httptest.NewServer(router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/events/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
