package users_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devconnect/internal/posts"
	"devconnect/internal/profiles"
	"devconnect/internal/testsupport"
	"devconnect/internal/users"
)

func TestRegister(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	t.Run("creates a user with hashed password and gravatar avatar", func(t *testing.T) {
		user, err := users.Register(db, logger, "Ann", "ann@example.com", "secret123")
		require.NoError(t, err)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "Ann", user.Name)
		assert.Equal(t, "ann@example.com", user.Email)
		assert.NotEqual(t, "secret123", user.EncryptedPassword)
		assert.True(t, strings.HasPrefix(user.Avatar, "https://www.gravatar.com/avatar/"))
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		_, err := users.Register(db, logger, "Another Ann", "ann@example.com", "different")
		assert.ErrorIs(t, err, users.ErrUserExists)
	})
}

func TestAuthenticate(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	testsupport.CreateTestUser(t, db, "Bob", "bob@example.com", "correct-horse")

	t.Run("returns the user on valid credentials", func(t *testing.T) {
		user, err := users.Authenticate(db, logger, "bob@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := users.Authenticate(db, logger, "bob@example.com", "wrong")
		assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email with the same error", func(t *testing.T) {
		_, err := users.Authenticate(db, logger, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	testsupport.CreateTestUser(t, db, "Carol", "carol@example.com", "old-password")

	require.NoError(t, users.ChangePassword(db, logger, "carol@example.com", "new-password"))

	_, err := users.Authenticate(db, logger, "carol@example.com", "old-password")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = users.Authenticate(db, logger, "carol@example.com", "new-password")
	assert.NoError(t, err)

	assert.Error(t, users.ChangePassword(db, logger, "carol@example.com", ""))
}

func TestDeleteAccount(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	owner := testsupport.CreateTestUser(t, db, "Dana", "dana@example.com", "password123")
	other := testsupport.CreateTestUser(t, db, "Eve", "eve@example.com", "password123")

	_, err := profiles.Upsert(db, logger, owner.ID, profiles.UpsertFields{
		Status: "Developer",
		Skills: "Go,SQL",
	})
	require.NoError(t, err)

	author := posts.AuthorSnapshot{UserID: owner.ID, Name: owner.Name, Avatar: owner.Avatar}
	_, err = posts.Create(db, logger, author, "first post")
	require.NoError(t, err)

	otherAuthor := posts.AuthorSnapshot{UserID: other.ID, Name: other.Name, Avatar: other.Avatar}
	kept, err := posts.Create(db, logger, otherAuthor, "unrelated post")
	require.NoError(t, err)

	require.NoError(t, users.DeleteAccount(db, logger, owner.ID))

	// User, profile, and posts are gone
	_, err = users.FindByID(db, owner.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = profiles.GetByUserID(db, owner.ID)
	var notFound *profiles.ProfileNotFoundError
	assert.ErrorAs(t, err, &notFound)

	remaining, err := posts.GetAll(db)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	t.Run("deleting an unknown user fails", func(t *testing.T) {
		err := users.DeleteAccount(db, logger, 99999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestGravatarURL(t *testing.T) {
	a := users.GravatarURL("Someone@Example.com ")
	b := users.GravatarURL("someone@example.com")

	// Case and surrounding whitespace do not change the derived avatar
	assert.Equal(t, a, b)
	assert.Contains(t, a, "s=200")
	assert.Contains(t, a, "d=mm")
}
