package users

import (
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/crypto"
	"gorm.io/gorm"

	"devconnect/internal/models"
	"devconnect/internal/posts"
	"devconnect/internal/profiles"
)

type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string    `json:"-"`
	Avatar            string    `json:"avatar"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ErrUserExists is returned when attempting to register an email that is taken.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = gorm.ErrRecordNotFound

// ErrInvalidCredentials is returned on a failed email/password authentication.
// The message is deliberately generic so responses do not reveal whether the
// email is registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FindByEmail retrieves a user by email.
func FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func FindByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new user with a hashed password and a gravatar-derived
// avatar. It returns ErrUserExists when the email is already registered.
func Register(dbConn *gorm.DB, logger *slog.Logger, name, email, password string) (*User, error) {
	// Check existence first
	if _, err := FindByEmail(dbConn, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}

	newUser := User{
		Name:              name,
		Email:             email,
		EncryptedPassword: string(hashedPassword),
		Avatar:            GravatarURL(email),
	}

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Create(&newUser).Error
	})
	if err != nil {
		return nil, err
	}
	return &newUser, nil
}

// Authenticate verifies an email/password pair and returns the matching user.
// An unknown email still runs a hash comparison so response time does not
// reveal whether the account exists.
func Authenticate(db *gorm.DB, logger *slog.Logger, email, password string) (*User, error) {
	user, err := FindByEmail(db, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		logger.Debug("User not found during login", slog.String("email", email))
		dummyHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // bcrypt hash of "dummy"
		crypto.VerifyPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if !crypto.VerifyPassword(user.EncryptedPassword, password) {
		logger.Debug("Invalid password attempt", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// DeleteAccount removes the user's profile, their posts, and finally the user
// itself. Orphaned posts would otherwise keep a stale author snapshot around,
// so deletion cascades to them.
func DeleteAccount(dbConn *gorm.DB, logger *slog.Logger, userID uint) error {
	if _, err := FindByID(dbConn, userID); err != nil {
		return err
	}

	return models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&profiles.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&posts.Post{}).Error; err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
		return tx.Delete(&User{}, userID).Error
	})
}

// ChangePassword updates a user's password given their email.
func ChangePassword(dbConn *gorm.DB, logger *slog.Logger, email, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	user, err := FindByEmail(dbConn, email)
	if err != nil {
		return err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return err
	}

	return models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Model(user).Update("encrypted_password", string(hashedPassword)).Error
	})
}

// GravatarURL derives the deterministic avatar URL for an email address:
// 200px, PG rated, mystery-man fallback.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
