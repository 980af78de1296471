package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Payphone-Digital/addressbook/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoUser is inserted by Seed when DB_SEED is on
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

func GetDemoUser() DemoUser {
	return DemoUser{
		Name:     "Demo User",
		Email:    "demo@addressbook.local",
		Password: "Demo@12345",
	}
}

// Seed inserts the demo user unless it already exists. It reports whether a
// row was created.
func Seed(ctx context.Context, db *gorm.DB) (bool, error) {
	demo := GetDemoUser()

	var existing model.User
	err := db.WithContext(ctx).Where("email = ?", demo.Email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user := model.User{
		Name:         demo.Name,
		Email:        demo.Email,
		PasswordHash: string(hash),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, fmt.Errorf("create demo user: %w", err)
	}
	return true, nil
}
