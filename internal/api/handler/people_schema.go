package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createPersonRequest struct {
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name"  validate:"required"`
	Email     string    `json:"email"      validate:"required,email"`
	Role      string    `json:"role"       validate:"required,oneof=HRAdmin Manager Employee"`
	HireDate  time.Time `json:"hire_date"  validate:"required"`
}

type updatePersonRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Role      string `json:"role"       validate:"required,oneof=HRAdmin Manager Employee"`
}

type createPersonResponse struct {
	ID string `json:"id"`
}

// Response-only types owned by the transport layer, intentionally
// separate from domain types so the JSON contract is not coupled to
// internal changes.

type personResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	HireDate  time.Time `json:"hire_date"`
	CreatedAt time.Time `json:"created_at"`
}
