package profiles_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/collections"
	"devconnect/internal/profiles"
	"devconnect/internal/testsupport"
)

func strPtr(s string) *string { return &s }

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, profiles.SkillList{"Go", "SQL", "HTML"},
		profiles.SplitSkills("Go, SQL ,HTML"))
	assert.Equal(t, profiles.SkillList{"Go"}, profiles.SplitSkills("Go,,  ,"))
	assert.Empty(t, profiles.SplitSkills(""))
}

func TestUpsert(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	user := testsupport.CreateTestUser(t, db, "Ann", "ann@example.com", "password123")

	t.Run("requires status and skills", func(t *testing.T) {
		_, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{Skills: "Go"})
		assert.Error(t, err)

		_, err = profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{Status: "Developer"})
		assert.Error(t, err)
	})

	t.Run("creates the profile on first write", func(t *testing.T) {
		profile, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
			Status:   "Developer",
			Skills:   "Go, SQL",
			Bio:      strPtr("shipping since 2015"),
			Location: strPtr("Lisbon"),
			Twitter:  strPtr("https://twitter.com/ann"),
		})
		require.NoError(t, err)

		assert.Equal(t, user.ID, profile.UserID)
		assert.Equal(t, "Developer", profile.Status)
		assert.Equal(t, profiles.SkillList{"Go", "SQL"}, profile.Skills)
		assert.Equal(t, "shipping since 2015", profile.Bio)
		assert.Equal(t, "https://twitter.com/ann", profile.Social["twitter"])
	})

	t.Run("merges present fields and keeps absent ones", func(t *testing.T) {
		// Status and skills change; bio is absent from the input and must
		// survive the update untouched.
		profile, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
			Status: "Senior Developer",
			Skills: "Go, SQL, Terraform",
		})
		require.NoError(t, err)

		assert.Equal(t, "Senior Developer", profile.Status)
		assert.Equal(t, profiles.SkillList{"Go", "SQL", "Terraform"}, profile.Skills)
		assert.Equal(t, "shipping since 2015", profile.Bio)
		assert.Equal(t, "Lisbon", profile.Location)
		assert.Equal(t, "https://twitter.com/ann", profile.Social["twitter"])
	})

	t.Run("repeating identical input is idempotent", func(t *testing.T) {
		fields := profiles.UpsertFields{
			Status: "Senior Developer",
			Skills: "Go, SQL, Terraform",
		}
		first, err := profiles.Upsert(db, logger, user.ID, fields)
		require.NoError(t, err)
		second, err := profiles.Upsert(db, logger, user.ID, fields)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, first.Skills, second.Skills)
		assert.Equal(t, first.Bio, second.Bio)

		var count int64
		db.Model(&profiles.Profile{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("explicit empty string clears a field", func(t *testing.T) {
		profile, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
			Status: "Senior Developer",
			Skills: "Go",
			Bio:    strPtr(""),
		})
		require.NoError(t, err)
		assert.Empty(t, profile.Bio)
	})
}

func TestGetProfiles(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	alice := testsupport.CreateTestUser(t, db, "Alice", "alice@example.com", "password123")
	bob := testsupport.CreateTestUser(t, db, "Bob", "bob@example.com", "password123")

	_, err := profiles.Upsert(db, logger, alice.ID, profiles.UpsertFields{
		Status: "Developer", Skills: "Go",
	})
	require.NoError(t, err)
	_, err = profiles.Upsert(db, logger, bob.ID, profiles.UpsertFields{
		Status: "Designer", Skills: "Figma",
	})
	require.NoError(t, err)

	t.Run("lists all profiles with owner fields", func(t *testing.T) {
		all, err := profiles.GetAll(db)
		require.NoError(t, err)
		require.Len(t, all, 2)

		byOwner := map[string]string{}
		for _, p := range all {
			byOwner[p.OwnerName] = p.Status
			assert.NotEmpty(t, p.OwnerAvatar)
		}
		assert.Equal(t, "Developer", byOwner["Alice"])
		assert.Equal(t, "Designer", byOwner["Bob"])
	})

	t.Run("fetches one profile with its owner", func(t *testing.T) {
		p, err := profiles.GetByUserIDWithOwner(db, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.OwnerName)
		assert.Equal(t, "Developer", p.Status)
	})

	t.Run("missing profile yields a typed not-found error", func(t *testing.T) {
		_, err := profiles.GetByUserID(db, 99999)
		var notFound *profiles.ProfileNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, uint(99999), notFound.UserID)
	})
}

func TestExperience(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	user := testsupport.CreateTestUser(t, db, "Cleo", "cleo@example.com", "password123")

	_, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
		Status: "Developer", Skills: "Go",
	})
	require.NoError(t, err)

	from := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("requires title, company, and from date", func(t *testing.T) {
		_, err := profiles.AddExperience(db, logger, user.ID, profiles.Experience{
			Company: "Acme", From: from,
		})
		assert.Error(t, err)

		_, err = profiles.AddExperience(db, logger, user.ID, profiles.Experience{
			Title: "Engineer", From: from,
		})
		assert.Error(t, err)

		_, err = profiles.AddExperience(db, logger, user.ID, profiles.Experience{
			Title: "Engineer", Company: "Acme",
		})
		assert.Error(t, err)
	})

	t.Run("prepends entries newest first with generated IDs", func(t *testing.T) {
		profile, err := profiles.AddExperience(db, logger, user.ID, profiles.Experience{
			Title: "Engineer", Company: "Acme", From: from,
		})
		require.NoError(t, err)
		require.Len(t, profile.Experience, 1)
		assert.NotEmpty(t, profile.Experience[0].ID)

		profile, err = profiles.AddExperience(db, logger, user.ID, profiles.Experience{
			Title: "Senior Engineer", Company: "Globex", From: from.AddDate(2, 0, 0), Current: true,
		})
		require.NoError(t, err)
		require.Len(t, profile.Experience, 2)
		assert.Equal(t, "Senior Engineer", profile.Experience[0].Title)
		assert.Equal(t, "Engineer", profile.Experience[1].Title)
		assert.NotEqual(t, profile.Experience[0].ID, profile.Experience[1].ID)
	})

	t.Run("removes exactly the entry with the given ID", func(t *testing.T) {
		profile, err := profiles.GetByUserID(db, user.ID)
		require.NoError(t, err)
		require.Len(t, profile.Experience, 2)
		removeID := profile.Experience[1].ID

		updated, err := profiles.RemoveExperience(db, logger, user.ID, removeID)
		require.NoError(t, err)
		require.Len(t, updated.Experience, 1)
		assert.Equal(t, "Senior Engineer", updated.Experience[0].Title)
	})

	t.Run("removing an unknown ID fails without changes", func(t *testing.T) {
		_, err := profiles.RemoveExperience(db, logger, user.ID, "no-such-entry")
		assert.ErrorIs(t, err, collections.ErrEntryNotFound)

		profile, err := profiles.GetByUserID(db, user.ID)
		require.NoError(t, err)
		assert.Len(t, profile.Experience, 1)
	})

	t.Run("entries survive a round trip through storage", func(t *testing.T) {
		profile, err := profiles.GetByUserID(db, user.ID)
		require.NoError(t, err)
		require.Len(t, profile.Experience, 1)
		assert.True(t, profile.Experience[0].Current)
		assert.True(t, profile.Experience[0].From.Equal(from.AddDate(2, 0, 0)))
	})
}

func TestEducation(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	user := testsupport.CreateTestUser(t, db, "Dee", "dee@example.com", "password123")

	_, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
		Status: "Student", Skills: "Go",
	})
	require.NoError(t, err)

	from := time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("requires school, degree, and field of study", func(t *testing.T) {
		_, err := profiles.AddEducation(db, logger, user.ID, profiles.Education{
			Degree: "BSc", FieldOfStudy: "CS", From: from,
		})
		assert.Error(t, err)
	})

	t.Run("adds and removes entries", func(t *testing.T) {
		profile, err := profiles.AddEducation(db, logger, user.ID, profiles.Education{
			School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from, To: &to,
		})
		require.NoError(t, err)
		require.Len(t, profile.Education, 1)
		entryID := profile.Education[0].ID
		require.NotEmpty(t, entryID)

		updated, err := profiles.RemoveEducation(db, logger, user.ID, entryID)
		require.NoError(t, err)
		assert.Empty(t, updated.Education)
	})

	t.Run("operations on a missing profile fail", func(t *testing.T) {
		_, err := profiles.AddEducation(db, logger, 99999, profiles.Education{
			School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from,
		})
		var notFound *profiles.ProfileNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestDeleteProfile(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	user := testsupport.CreateTestUser(t, db, "Finn", "finn@example.com", "password123")

	_, err := profiles.Upsert(db, logger, user.ID, profiles.UpsertFields{
		Status: "Developer", Skills: "Go",
	})
	require.NoError(t, err)

	require.NoError(t, profiles.Delete(db, logger, user.ID))

	_, err = profiles.GetByUserID(db, user.ID)
	var notFound *profiles.ProfileNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Deleting again is a no-op
	assert.NoError(t, profiles.Delete(db, logger, user.ID))
}
