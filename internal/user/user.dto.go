package user

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ToggleFavoriteRequest struct {
	TwisterText string `json:"twisterText"`
}

type ToggleFavoriteResponse struct {
	TwisterText string `json:"twisterText"`
	Favorited   bool   `json:"favorited"`
}
