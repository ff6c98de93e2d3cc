package user

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// User is the domain shape returned by the user service. PasswordHash never
// leaves the process.
type User struct {
	ID                     int64     `json:"id"`
	FullName               string    `json:"full_name"`
	Email                  string    `json:"email"`
	PasswordHash           string    `json:"-"`
	Role                   string    `json:"role"`
	ProfilePictureURL      *string   `json:"profile_picture_url,omitempty"`
	AnnualLeaveEntitlement int       `json:"annual_leave_entitlement"`
	LeaveBalance           int       `json:"leave_balance"`
	CarryOverBalance       int       `json:"carry_over_balance"`
	LeaveYear              int       `json:"leave_year"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:                     u.ID,
		FullName:               u.FullName,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   u.Role,
		ProfilePictureURL:      u.ProfilePictureURL,
		AnnualLeaveEntitlement: u.AnnualLeaveEntitlement,
		LeaveBalance:           u.LeaveBalance,
		CarryOverBalance:       u.CarryOverBalance,
		LeaveYear:              u.LeaveYear,
		IsActive:               u.IsActive,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:                     u.ID,
		FullName:               u.FullName,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   u.Role,
		ProfilePictureURL:      u.ProfilePictureURL,
		AnnualLeaveEntitlement: u.AnnualLeaveEntitlement,
		LeaveBalance:           u.LeaveBalance,
		CarryOverBalance:       u.CarryOverBalance,
		LeaveYear:              u.LeaveYear,
		IsActive:               u.IsActive,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func FromDataModelSlice(records []*userDatamodel.User) []*User {
	users := make([]*User, 0, len(records))
	for _, record := range records {
		users = append(users, FromDataModel(record))
	}
	return users
}
