package user

import (
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// CreateUserDTO is the admin payload for creating a user with a known
// password.
type CreateUserDTO struct {
	FullName               string `json:"full_name" validate:"required"`
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=8"`
	Role                   string `json:"role" validate:"required"`
	AnnualLeaveEntitlement *int   `json:"annual_leave_entitlement,omitempty"`
}

func (dto CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("full_name", dto.FullName).Required()
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(8)
	v.Field("role", dto.Role).Required().
		OneOf(internal.ErrCodeInvalidRole, userDatamodel.RoleAdmin, userDatamodel.RoleManager, userDatamodel.RoleStaff)
	v.Field("annual_leave_entitlement", dto.AnnualLeaveEntitlement).MinIntPtr(0)
	return v.Validate()
}

// InviteUserDTO is the admin payload for inviting a user. The service
// generates a temporary password and emails it to the invitee.
type InviteUserDTO struct {
	FullName               string `json:"full_name" validate:"required"`
	Email                  string `json:"email" validate:"required,email"`
	Role                   string `json:"role" validate:"required"`
	AnnualLeaveEntitlement *int   `json:"annual_leave_entitlement,omitempty"`
}

func (dto InviteUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("full_name", dto.FullName).Required()
	v.Field("email", dto.Email).Required().Email()
	v.Field("role", dto.Role).Required().
		OneOf(internal.ErrCodeInvalidRole, userDatamodel.RoleAdmin, userDatamodel.RoleManager, userDatamodel.RoleStaff)
	v.Field("annual_leave_entitlement", dto.AnnualLeaveEntitlement).MinIntPtr(0)
	return v.Validate()
}
