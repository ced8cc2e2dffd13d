package handler

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// credentialRequest is the wire shape shared by register and update:
// the flattened credential payload sent by the people service's
// companion calls. Password is optional; when absent on register, a
// random one is generated server-side.
type credentialRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=HRAdmin Manager Employee"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type changePasswordRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}
