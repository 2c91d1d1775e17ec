package models

// User is the identity returned by GET /auth/me.
type User struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  ID     `json:"user_id"`
}
