// Package profiles manages developer profiles: the singleton per-user aggregate
// holding skills, social links, and the experience/education history entries.
package profiles

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devconnect/internal/collections"
	"devconnect/internal/models"
)

// ProfileNotFoundError represents an error when a profile is not found
type ProfileNotFoundError struct {
	UserID uint
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile not found for user: %d", e.UserID)
}

// NewProfileNotFoundError creates a new ProfileNotFoundError
func NewProfileNotFoundError(userID uint) *ProfileNotFoundError {
	return &ProfileNotFoundError{UserID: userID}
}

// ErrEntryNotFound is returned when a history entry lookup by ID fails.
var ErrEntryNotFound = collections.ErrEntryNotFound

// Experience is a single work-history entry, owned exclusively by one profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a single education-history entry.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// SkillList is stored as a JSON column on the profile row.
type SkillList []string

func (s *SkillList) Scan(value interface{}) error { return models.ScanJSONColumn(s, value) }
func (s SkillList) Value() (driver.Value, error)  { return models.JSONColumnValue(s) }

// SocialLinks maps platform name to URL; absent platforms are simply missing keys.
type SocialLinks map[string]string

func (s *SocialLinks) Scan(value interface{}) error { return models.ScanJSONColumn(s, value) }
func (s SocialLinks) Value() (driver.Value, error)  { return models.JSONColumnValue(s) }

// ExperienceList is stored as a JSON column, most recent entry first.
type ExperienceList []Experience

func (l *ExperienceList) Scan(value interface{}) error { return models.ScanJSONColumn(l, value) }
func (l ExperienceList) Value() (driver.Value, error)  { return models.JSONColumnValue(l) }

// EducationList is stored as a JSON column, most recent entry first.
type EducationList []Education

func (l *EducationList) Scan(value interface{}) error { return models.ScanJSONColumn(l, value) }
func (l EducationList) Value() (driver.Value, error)  { return models.JSONColumnValue(l) }

// Profile is the per-user aggregate. It is loaded and saved as a whole,
// including the embedded history collections.
type Profile struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Company        string         `json:"company,omitempty"`
	Website        string         `json:"website,omitempty"`
	Location       string         `json:"location,omitempty"`
	Status         string         `gorm:"not null" json:"status"`
	Bio            string         `json:"bio,omitempty"`
	GithubUsername string         `json:"githubusername,omitempty"`
	Skills         SkillList      `gorm:"type:text" json:"skills"`
	Social         SocialLinks    `gorm:"type:text" json:"social,omitempty"`
	Experience     ExperienceList `gorm:"type:text" json:"experience"`
	Education      EducationList  `gorm:"type:text" json:"education"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// UpsertFields carries the sparse profile input. Pointer fields distinguish
// "absent" from "set to empty": absent fields never overwrite stored values.
type UpsertFields struct {
	Status string
	Skills string // comma-separated, split and trimmed on write

	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string

	Youtube   *string
	Twitter   *string
	Instagram *string
	Linkedin  *string
	Facebook  *string
	Dribbble  *string
}

// SplitSkills normalizes a comma-separated skill string into an ordered list.
func SplitSkills(raw string) SkillList {
	parts := strings.Split(raw, ",")
	skills := make(SkillList, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// Upsert creates the caller's profile or merges the present fields into the
// existing one. Fields absent from the input are left untouched.
func Upsert(dbConn *gorm.DB, logger *slog.Logger, userID uint, fields UpsertFields) (*Profile, error) {
	if fields.Status == "" {
		return nil, errors.New("status is required")
	}
	if fields.Skills == "" {
		return nil, errors.New("skills is required")
	}

	profile, err := GetByUserID(dbConn, userID)
	if err != nil {
		var notFound *ProfileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		profile = &Profile{UserID: userID}
	}

	profile.Status = fields.Status
	profile.Skills = SplitSkills(fields.Skills)
	applyIfPresent(fields.Company, &profile.Company)
	applyIfPresent(fields.Website, &profile.Website)
	applyIfPresent(fields.Location, &profile.Location)
	applyIfPresent(fields.Bio, &profile.Bio)
	applyIfPresent(fields.GithubUsername, &profile.GithubUsername)

	if profile.Social == nil {
		profile.Social = SocialLinks{}
	}
	applySocial(profile.Social, "youtube", fields.Youtube)
	applySocial(profile.Social, "twitter", fields.Twitter)
	applySocial(profile.Social, "instagram", fields.Instagram)
	applySocial(profile.Social, "linkedin", fields.Linkedin)
	applySocial(profile.Social, "facebook", fields.Facebook)
	applySocial(profile.Social, "dribbble", fields.Dribbble)

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func applyIfPresent(src *string, dest *string) {
	if src != nil {
		*dest = *src
	}
}

func applySocial(links SocialLinks, platform string, value *string) {
	if value != nil {
		links[platform] = *value
	}
}

// GetByUserID retrieves the profile owned by the given user.
func GetByUserID(db *gorm.DB, userID uint) (*Profile, error) {
	var profile Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProfileNotFoundError(userID)
		}
		return nil, fmt.Errorf("unexpected error querying profile: %w", err)
	}
	return &profile, nil
}

// ProfileWithOwner is a profile enriched with the owning user's public fields.
type ProfileWithOwner struct {
	Profile
	OwnerName   string `json:"owner_name"`
	OwnerAvatar string `json:"owner_avatar"`
}

// GetAll retrieves every profile together with the owner's name and avatar.
func GetAll(db *gorm.DB) ([]ProfileWithOwner, error) {
	var result []ProfileWithOwner
	err := db.Table("profiles").
		Select("profiles.*, users.name AS owner_name, users.avatar AS owner_avatar").
		Joins("JOIN users ON users.id = profiles.user_id").
		Order("profiles.created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	return result, nil
}

// GetByUserIDWithOwner retrieves one profile together with the owner's public fields.
func GetByUserIDWithOwner(db *gorm.DB, userID uint) (*ProfileWithOwner, error) {
	var result ProfileWithOwner
	err := db.Table("profiles").
		Select("profiles.*, users.name AS owner_name, users.avatar AS owner_avatar").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.user_id = ?", userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProfileNotFoundError(userID)
		}
		return nil, fmt.Errorf("unexpected error querying profile: %w", err)
	}
	return &result, nil
}

// Delete removes the profile owned by the given user, if any.
func Delete(dbConn *gorm.DB, logger *slog.Logger, userID uint) error {
	return models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&Profile{}).Error
	})
}

// AddExperience validates and prepends a work-history entry to the caller's profile.
func AddExperience(dbConn *gorm.DB, logger *slog.Logger, userID uint, entry Experience) (*Profile, error) {
	if entry.Title == "" {
		return nil, errors.New("title is required")
	}
	if entry.Company == "" {
		return nil, errors.New("company is required")
	}
	if entry.From.IsZero() {
		return nil, errors.New("from date is required")
	}

	profile, err := GetByUserID(dbConn, userID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	profile.Experience = collections.PushFront(profile.Experience, entry)

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveExperience deletes the work-history entry with the given ID from the
// caller's own profile. Ownership is implicit: the profile is loaded by caller.
func RemoveExperience(dbConn *gorm.DB, logger *slog.Logger, userID uint, entryID string) (*Profile, error) {
	profile, err := GetByUserID(dbConn, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := collections.RemoveMatching(profile.Experience, func(e Experience) bool {
		return e.ID == entryID
	})
	if err != nil {
		return nil, err
	}
	profile.Experience = remaining

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// AddEducation validates and prepends an education-history entry.
func AddEducation(dbConn *gorm.DB, logger *slog.Logger, userID uint, entry Education) (*Profile, error) {
	if entry.School == "" {
		return nil, errors.New("school is required")
	}
	if entry.Degree == "" {
		return nil, errors.New("degree is required")
	}
	if entry.FieldOfStudy == "" {
		return nil, errors.New("field of study is required")
	}
	if entry.From.IsZero() {
		return nil, errors.New("from date is required")
	}

	profile, err := GetByUserID(dbConn, userID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	profile.Education = collections.PushFront(profile.Education, entry)

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveEducation deletes the education entry with the given ID from the
// caller's own profile.
func RemoveEducation(dbConn *gorm.DB, logger *slog.Logger, userID uint, entryID string) (*Profile, error) {
	profile, err := GetByUserID(dbConn, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := collections.RemoveMatching(profile.Education, func(e Education) bool {
		return e.ID == entryID
	})
	if err != nil {
		return nil, err
	}
	profile.Education = remaining

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
