package main

import (
	"fmt"
	"strings"

	"gastos/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates a local account. Username and email must be unique.
func Register(db *gorm.DB, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username required", ErrValidation)
	}
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email required", ErrValidation)
	}
	if len(password) < 6 { // basic password policy
		return models.User{}, fmt.Errorf("%w: password too short (min 6)", ErrValidation)
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return models.User{}, fmt.Errorf("%w: username taken", ErrDuplicate)
	}
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrDuplicate)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Username: username, Email: email, HashedPassword: hashedPassword}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return models.User{}, fmt.Errorf("%w: username or email taken", ErrDuplicate)
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies local credentials. The error is the same whether the
// user is unknown or the password is wrong.
func Authenticate(db *gorm.DB, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithGoogleIdentity resolves an external identity assertion to a local
// account by email, creating the account on first login. Accounts created
// here get a random placeholder password that can never be used to log in
// locally. An existing local account with the same email is reused as-is.
func LoginWithGoogleIdentity(db *gorm.DB, email string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email missing from identity provider", ErrValidation)
	}
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		return user, nil
	}
	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user = models.User{Username: email, Email: email, HashedPassword: placeholder}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			// concurrent first login with the same email
			if err2 := db.Where("email = ?", email).First(&user).Error; err2 == nil {
				return user, nil
			}
		}
		return models.User{}, err
	}
	return user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
