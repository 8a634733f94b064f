package model

import "time"

type AdminRole string

// Kanonisches Rollenmodell nach der Migration: ADMIN > STAFF.
const (
	RoleAdmin AdminRole = "ADMIN"
	RoleStaff AdminRole = "STAFF"
)

var roleRank = map[AdminRole]int{
	RoleStaff: 0,
	RoleAdmin: 1,
}

// Rank orders roles so checks never compare role strings directly.
// Unknown roles rank below STAFF.
func (r AdminRole) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

func (r AdminRole) AtLeast(min AdminRole) bool {
	return r.Rank() >= min.Rank() && r.Rank() >= 0
}

func IsValidAdminRole(r AdminRole) bool {
	_, ok := roleRank[r]
	return ok
}

type AdminUser struct {
	AdminID            uint      `gorm:"column:admin_id;primaryKey;autoIncrement"`
	Username           string    `gorm:"column:username;type:varchar(100);uniqueIndex;not null"`
	PasswordHash       string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Role               AdminRole `gorm:"column:role;type:varchar(20);default:'STAFF';not null"`
	MustChangePassword bool      `gorm:"column:must_change_password;default:false;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	CreatedBy          *uint     `gorm:"column:created_by"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
