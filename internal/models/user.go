package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a member can have. Admins manage schedules, funds and other members.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a member of the dining system.
//
// Users are only ever soft deleted so that finalized months stay attributable
// to the members they billed.
type User struct {
	DefaultModel
	Name         string          `json:"name"`
	Email        string          `json:"email" gorm:"uniqueIndex"`
	PasswordHash string          `json:"-"`
	Mobile       string          `json:"mobile"`
	Room         string          `json:"room"`
	Building     string          `json:"building"`
	Role         string          `json:"role"`
	FixedDeposit decimal.Decimal `json:"fixedDeposit" gorm:"type:DECIMAL(20,8)"` // Recurring monthly deposit default
	MosqueFee    decimal.Decimal `json:"mosqueFee" gorm:"type:DECIMAL(20,8)"`    // Recurring monthly fee
}

// BeforeSave validates the role and the recurring amounts and trims whitespace.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Mobile = strings.TrimSpace(u.Mobile)
	u.Room = strings.TrimSpace(u.Room)
	u.Building = strings.TrimSpace(u.Building)

	if u.Role == "" {
		u.Role = RoleMember
	}

	if u.Role != RoleMember && u.Role != RoleAdmin {
		return ErrInvalidRole
	}

	if u.FixedDeposit.IsNegative() || u.MosqueFee.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

// SetPassword hashes the password with bcrypt and stores the hash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserByEmail returns the member with the given email.
func UserByEmail(db *gorm.DB, email string) (User, error) {
	var user User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	return user, err
}
