package transport

type SignUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest leaves the confirmation check to the reset service so
// a mismatch is reported as such.
type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken"      validate:"required"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type CreateItemRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price"       validate:"min=0"`
	Image       string `json:"image"       validate:"omitempty,url"`
	LargeImage  string `json:"largeImage"  validate:"omitempty,url"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"       validate:"omitempty,min=0"`
	Image       *string `json:"image"       validate:"omitempty,url"`
	LargeImage  *string `json:"largeImage"  validate:"omitempty,url"`
}

type AddToCartRequest struct {
	ItemID string `json:"itemId" validate:"required,uuid"`
}

type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,required"`
}
