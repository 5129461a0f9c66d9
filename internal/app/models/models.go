package models

import "strings"

// ID identifies a student or a subject. Identifiers are kept as strings even when
// they look numeric so leading zeros survive a round trip through storage.
type ID string

// NewID normalizes raw input into an ID. This is the only place identifiers are
// normalized; everything downstream compares IDs with ==.
func NewID(raw string) ID {
	return ID(strings.TrimSpace(raw))
}

// String returns the identifier as a plain string
func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier is blank
func (id ID) IsEmpty() bool {
	return id == ""
}

// RoleType defines the session role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// Outcome is the result of a rule-engine operation. Rule violations and unknown
// identifiers are reported here rather than as errors.
type Outcome struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Subject is full."`
}

// Succeeded builds a successful outcome
func Succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

// Failed builds a failed outcome
func Failed(message string) Outcome {
	return Outcome{Success: false, Message: message}
}
