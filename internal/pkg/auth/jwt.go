package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// JWT errors
var (
	ErrInvalidToken  = apperrors.ErrTokenInvalid
	ErrExpiredToken  = apperrors.ErrTokenExpired
	ErrRevokedToken  = apperrors.ErrTokenRevoked
	ErrInvalidFormat = apperrors.ErrInvalidFormat
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService issues and validates session tokens and tracks logged-out token ids
type JWTService struct {
	config JWTConfig
	now    func() time.Time

	mu       sync.Mutex
	revoked  map[string]time.Time
	onRevoke []func(tokenID string)
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config:  config,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Claims defines JWT token content
type Claims struct {
	StudentID string          `json:"studentId,omitempty"`
	RoleType  models.RoleType `json:"roleType"`
	jwt.RegisteredClaims
}

// Session rebuilds the session the token was issued for
func (c *Claims) Session() Session {
	if c.RoleType == models.RoleAdmin {
		return AdminSession()
	}
	return StudentSession(models.NewID(c.StudentID))
}

// GenerateToken signs an access token for a logged-in session
func (s *JWTService) GenerateToken(session Session) (token string, expiresIn int, err error) {
	if !session.IsLoggedIn() {
		return "", 0, fmt.Errorf("cannot issue a token for a logged-out session: %w", ErrInvalidToken)
	}

	now := s.now()
	subject := AdminUserID
	if session.IsStudent() {
		subject = session.StudentID.String()
	}

	claims := &Claims{
		StudentID: session.StudentID.String(),
		RoleType:  session.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   subject,
			ID:        uuid.New().String(),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create access token: %w", err)
	}

	return token, int(s.config.AccessTokenExp.Seconds()), nil
}

// ValidateToken parses a token and checks signature, expiry and revocation
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.config.TokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrInvalidFormat
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	switch claims.RoleType {
	case models.RoleAdmin:
	case models.RoleStudent:
		if strings.TrimSpace(claims.StudentID) == "" {
			return nil, ErrInvalidToken
		}
	default:
		return nil, ErrInvalidToken
	}

	if s.isRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// Revoke marks the token id as logged out until the token would have expired anyway
func (s *JWTService) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}

	expiry := s.now().Add(s.config.AccessTokenExp)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	s.pruneLocked()
	s.revoked[claims.ID] = expiry
	hooks := append([]func(string){}, s.onRevoke...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(claims.ID)
	}
}

// OnRevoke registers fn to run with the token id after each revocation
func (s *JWTService) OnRevoke(fn func(tokenID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRevoke = append(s.onRevoke, fn)
}

func (s *JWTService) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// pruneLocked drops revocations whose tokens have expired. Caller holds mu.
func (s *JWTService) pruneLocked() {
	now := s.now()
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
		}
	}
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), nil
	}

	return authHeader, nil
}
