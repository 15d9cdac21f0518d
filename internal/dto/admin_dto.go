package dto

type ModeratePostRequest struct {
	Action string `json:"action"`
}

type UpdateUserRequest struct {
	Role       *string `json:"role"`
	IsVerified *bool   `json:"is_verified"`
}
