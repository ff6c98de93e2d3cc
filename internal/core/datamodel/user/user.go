package user

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// DefaultAnnualEntitlement is the base yearly allotment seeded for new users.
const DefaultAnnualEntitlement = 25

type User struct {
	ID                     int64     `gorm:"primaryKey"`
	FullName               string    `gorm:"column:full_name;not null"`
	Email                  string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash           string    `gorm:"column:password_hash;not null"`
	Role                   string    `gorm:"column:role;default:STAFF"`
	ProfilePictureURL      *string   `gorm:"column:profile_picture_url"`
	AnnualLeaveEntitlement int       `gorm:"column:annual_leave_entitlement;default:25"`
	LeaveBalance           int       `gorm:"column:leave_balance;default:25"`
	CarryOverBalance       int       `gorm:"column:carry_over_balance;default:0"`
	LeaveYear              int       `gorm:"column:leave_year;not null"`
	IsActive               bool      `gorm:"column:is_active;default:true"`
	CreatedAt              time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt              time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}
