package auth

import (
	"strings"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// AdminUserID is the literal login name of the administrator, matched case-insensitively
const AdminUserID = "admin"

// Session describes who is logged in. The zero value is the logged-out session.
type Session struct {
	StudentID models.ID `json:"studentId,omitempty"`
	Admin     bool      `json:"admin"`
}

// StudentIdentity is proof that a session belongs to a logged-in student. It can only
// be obtained from Session.Student, so student-scoped operations cannot be called
// without one.
type StudentIdentity struct {
	id models.ID
}

// ID returns the authenticated student's id
func (s StudentIdentity) ID() models.ID {
	return s.id
}

// AdminSession returns the administrator session
func AdminSession() Session {
	return Session{Admin: true}
}

// StudentSession returns a session bound to a student id
func StudentSession(id models.ID) Session {
	return Session{StudentID: id}
}

// IsAdminUserID reports whether the login name selects the administrator.
// Only letter case is ignored; padded input is not the admin name.
func IsAdminUserID(userID string) bool {
	return strings.EqualFold(userID, AdminUserID)
}

// IsLoggedIn reports whether the session is anything other than logged out
func (s Session) IsLoggedIn() bool {
	return s.Admin || !s.StudentID.IsEmpty()
}

// IsStudent reports whether the session belongs to a student
func (s Session) IsStudent() bool {
	return !s.Admin && !s.StudentID.IsEmpty()
}

// Role returns the role carried in tokens, empty when logged out
func (s Session) Role() models.RoleType {
	switch {
	case s.Admin:
		return models.RoleAdmin
	case s.IsStudent():
		return models.RoleStudent
	default:
		return ""
	}
}

// Student returns the student capability, or ErrNotStudentSession for logged-out and admin sessions
func (s Session) Student() (StudentIdentity, error) {
	if !s.IsStudent() {
		return StudentIdentity{}, apperrors.ErrNotStudentSession
	}
	return StudentIdentity{id: s.StudentID}, nil
}
