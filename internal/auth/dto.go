package auth

import (
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (dto LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required()
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (dto RefreshTokenDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", dto.RefreshToken).Required()
	return v.Validate()
}

// UserProfile is the safe user shape returned alongside tokens on login,
// including the leave fields the frontend shows.
type UserProfile struct {
	ID                     int64   `json:"id"`
	FullName               string  `json:"full_name"`
	Email                  string  `json:"email"`
	Role                   string  `json:"role"`
	ProfilePictureURL      *string `json:"profile_picture_url,omitempty"`
	LeaveBalance           int     `json:"leave_balance"`
	CarryOverBalance       int     `json:"carry_over_balance"`
	AnnualLeaveEntitlement int     `json:"annual_leave_entitlement"`
	LeaveYear              int     `json:"leave_year"`
}

type LoginResponse struct {
	AuthTokens
	User UserProfile `json:"user"`
}
