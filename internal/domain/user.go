package domain

import "time"

// User roles
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username" form:"username"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Password  string    `json:"-" form:"password"`
	Role      string    `gorm:"size:32;index" json:"role" form:"role"`
	Status    string    `gorm:"size:32" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may perform mutating catalog calls
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
