package model

import "time"

// Department MySQL model for the department directory
type Department struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	DepartmentID string    `gorm:"column:department_id;type:varchar(64);not null;uniqueIndex:idx_department_id_unique" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	ManagerID    string    `gorm:"column:manager_id;type:varchar(64)" json:"manager_id"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// User MySQL model for the user directory
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID       string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_user_id_unique" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	DepartmentID string    `gorm:"column:department_id;type:varchar(64);index:idx_user_department" json:"department_id"`
	Role         string    `gorm:"column:role;type:varchar(32);not null;default:'member'" json:"role"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
