package types

// RegisterUserRequest is the payload for creating a back-office account.
type RegisterUserRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=255"`
	LegalName string  `json:"legal_name" validate:"required,min=1,max=255"`
	Phone     string  `json:"phone" validate:"required,min=6,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  string  `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for obtaining an access token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
