package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an employee account. One account per employee per company.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_users_company_employee,priority:1"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_users_company_employee,priority:2"`
	EmployeeName string    `gorm:"type:varchar(150);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:uq_users_email;not null"`
	Password     string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(50);not null;default:'EMPLOYEE'"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
