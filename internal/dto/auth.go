package dto

// RegisterRequest is the body of a member registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginRequest is the body of an email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// KakaoLoginRequest carries the authorization code returned by Kakao
type KakaoLoginRequest struct {
	Code string `json:"code" query:"code" validate:"required,notblank"`
}

// AuthResponse carries an issued token
type AuthResponse struct {
	Token string `json:"token"`
}
