package dto

// Payloads for the privileged function entry points. Their responses always
// use the {ok, ...} envelope; errors never escape the function boundary.

type CreateProfileRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type JoinDefaultTeamRequest struct {
	UserID string `json:"userId"`
}

type FunctionResponse struct {
	OK        bool   `json:"ok"`
	ProfileID string `json:"profileId,omitempty"`
	Message   string `json:"message,omitempty"`
}
