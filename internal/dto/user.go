package dto

import "github.com/vishalbharath/Military-Assest-Management/internal/models"

// CreateUserRequest provisions a console account.
type CreateUserRequest struct {
	Username string          `json:"username" validate:"required,min=3"`
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN BASE_COMMANDER LOGISTICS_OFFICER"`
	BaseID   string          `json:"base_id" validate:"required"`
}
