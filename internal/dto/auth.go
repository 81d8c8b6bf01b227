package dto

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token pair and the principal profile.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshRequest carries a refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserProfile is the public view of an auth principal.
type UserProfile struct {
	UserID string `json:"user_id"`
	Nom    string `json:"nom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// RegisterRequest creates a new principal (admin only).
type RegisterRequest struct {
	Nom      string `json:"nom" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager membre"`
}
