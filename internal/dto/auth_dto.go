package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	SessionToken string `json:"session_token"`
}

type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

type IdentityResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// BootstrapResponse is the outcome of a register/login bootstrap run. When
// provisioning could not complete the user is still signed in and
// pending_repair is set; the next bootstrap re-attempts the missing steps.
type BootstrapResponse struct {
	AuthToken      string           `json:"auth_token"`
	SessionToken   string           `json:"session_token"`
	TenantID       string           `json:"tenant_id"`
	Identity       IdentityResponse `json:"identity"`
	ProfileID      string           `json:"profile_id,omitempty"`
	ProfileCreated bool             `json:"profile_created"`
	PendingRepair  bool             `json:"pending_repair"`
}

type AuthResponse struct {
	AuthToken    string           `json:"auth_token"`
	SessionToken string           `json:"session_token"`
	Identity     IdentityResponse `json:"identity"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	GymCount  int    `json:"gym_count"`
}
