package posts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/posts"
	"devconnect/internal/testsupport"
	"devconnect/internal/users"
)

func snapshotFor(u *users.User) posts.AuthorSnapshot {
	return posts.AuthorSnapshot{UserID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

func TestCreateAndListPosts(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	author := testsupport.CreateTestUser(t, db, "Ann", "ann@example.com", "password123")

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := posts.Create(db, logger, snapshotFor(author), "")
		assert.Error(t, err)
	})

	t.Run("stores the author snapshot", func(t *testing.T) {
		post, err := posts.Create(db, logger, snapshotFor(author), "hello world")
		require.NoError(t, err)

		assert.NotZero(t, post.ID)
		assert.Equal(t, author.ID, post.UserID)
		assert.Equal(t, "Ann", post.Name)
		assert.Equal(t, author.Avatar, post.Avatar)
		assert.Empty(t, post.Likes)
		assert.Empty(t, post.Comments)
	})

	t.Run("lists posts newest first", func(t *testing.T) {
		_, err := posts.Create(db, logger, snapshotFor(author), "second")
		require.NoError(t, err)
		_, err = posts.Create(db, logger, snapshotFor(author), "third")
		require.NoError(t, err)

		all, err := posts.GetAll(db)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "third", all[0].Text)
		assert.Equal(t, "second", all[1].Text)
		assert.Equal(t, "hello world", all[2].Text)
	})

	t.Run("get by unknown ID yields a typed not-found error", func(t *testing.T) {
		_, err := posts.GetByID(db, 99999)
		var notFound *posts.PostNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, uint(99999), notFound.PostID)
	})
}

func TestDeletePost(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	owner := testsupport.CreateTestUser(t, db, "Bea", "bea@example.com", "password123")
	stranger := testsupport.CreateTestUser(t, db, "Sam", "sam@example.com", "password123")

	post, err := posts.Create(db, logger, snapshotFor(owner), "mine")
	require.NoError(t, err)

	t.Run("only the author may delete", func(t *testing.T) {
		err := posts.Delete(db, logger, stranger.ID, post.ID)
		assert.ErrorIs(t, err, posts.ErrNotPostOwner)

		_, err = posts.GetByID(db, post.ID)
		assert.NoError(t, err)
	})

	t.Run("author delete removes the post", func(t *testing.T) {
		require.NoError(t, posts.Delete(db, logger, owner.ID, post.ID))

		_, err := posts.GetByID(db, post.ID)
		var notFound *posts.PostNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("deleting an unknown post fails", func(t *testing.T) {
		err := posts.Delete(db, logger, owner.ID, 99999)
		var notFound *posts.PostNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestLikes(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	author := testsupport.CreateTestUser(t, db, "Cal", "cal@example.com", "password123")
	fan1 := testsupport.CreateTestUser(t, db, "Fay", "fay@example.com", "password123")
	fan2 := testsupport.CreateTestUser(t, db, "Gus", "gus@example.com", "password123")

	post, err := posts.Create(db, logger, snapshotFor(author), "like me")
	require.NoError(t, err)

	t.Run("a like is recorded once per user", func(t *testing.T) {
		updated, err := posts.AddLike(db, logger, fan1.ID, post.ID)
		require.NoError(t, err)
		require.Len(t, updated.Likes, 1)
		assert.Equal(t, fan1.ID, updated.Likes[0].UserID)

		_, err = posts.AddLike(db, logger, fan1.ID, post.ID)
		assert.ErrorIs(t, err, posts.ErrAlreadyLiked)
	})

	t.Run("unliking removes only the caller's like", func(t *testing.T) {
		_, err := posts.AddLike(db, logger, fan2.ID, post.ID)
		require.NoError(t, err)

		updated, err := posts.RemoveLike(db, logger, fan1.ID, post.ID)
		require.NoError(t, err)
		require.Len(t, updated.Likes, 1)
		assert.Equal(t, fan2.ID, updated.Likes[0].UserID)
	})

	t.Run("unliking without a like is rejected", func(t *testing.T) {
		_, err := posts.RemoveLike(db, logger, fan1.ID, post.ID)
		assert.ErrorIs(t, err, posts.ErrNotYetLiked)
	})

	t.Run("like then unlike restores the original state", func(t *testing.T) {
		before, err := posts.GetByID(db, post.ID)
		require.NoError(t, err)

		_, err = posts.AddLike(db, logger, fan1.ID, post.ID)
		require.NoError(t, err)
		after, err := posts.RemoveLike(db, logger, fan1.ID, post.ID)
		require.NoError(t, err)

		assert.Equal(t, before.Likes, after.Likes)
	})

	t.Run("liking an unknown post fails", func(t *testing.T) {
		_, err := posts.AddLike(db, logger, fan1.ID, 99999)
		var notFound *posts.PostNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestComments(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	author := testsupport.CreateTestUser(t, db, "Dot", "dot@example.com", "password123")
	commenter := testsupport.CreateTestUser(t, db, "Eli", "eli@example.com", "password123")

	post, err := posts.Create(db, logger, snapshotFor(author), "discuss")
	require.NoError(t, err)

	t.Run("comments are prepended with the author snapshot", func(t *testing.T) {
		updated, err := posts.AddComment(db, logger, snapshotFor(commenter), post.ID, "first!")
		require.NoError(t, err)
		require.Len(t, updated.Comments, 1)

		updated, err = posts.AddComment(db, logger, snapshotFor(author), post.ID, "thanks")
		require.NoError(t, err)
		require.Len(t, updated.Comments, 2)
		assert.Equal(t, "thanks", updated.Comments[0].Text)
		assert.Equal(t, "first!", updated.Comments[1].Text)
		assert.Equal(t, "Eli", updated.Comments[1].Name)
		assert.NotEmpty(t, updated.Comments[0].ID)
	})

	t.Run("rejects an empty comment", func(t *testing.T) {
		_, err := posts.AddComment(db, logger, snapshotFor(commenter), post.ID, "")
		assert.Error(t, err)
	})

	t.Run("only the comment author may delete it", func(t *testing.T) {
		current, err := posts.GetByID(db, post.ID)
		require.NoError(t, err)
		require.Len(t, current.Comments, 2)
		eliComment := current.Comments[1]
		require.Equal(t, commenter.ID, eliComment.UserID)

		_, err = posts.DeleteComment(db, logger, author.ID, post.ID, eliComment.ID)
		assert.ErrorIs(t, err, posts.ErrNotCommentOwner)

		updated, err := posts.DeleteComment(db, logger, commenter.ID, post.ID, eliComment.ID)
		require.NoError(t, err)
		require.Len(t, updated.Comments, 1)
		assert.Equal(t, "thanks", updated.Comments[0].Text)
	})

	t.Run("deleting an unknown comment fails", func(t *testing.T) {
		_, err := posts.DeleteComment(db, logger, commenter.ID, post.ID, "no-such-comment")
		assert.ErrorIs(t, err, posts.ErrCommentNotFound)
	})

	t.Run("commenting on an unknown post fails", func(t *testing.T) {
		_, err := posts.AddComment(db, logger, snapshotFor(commenter), 99999, "hello")
		var notFound *posts.PostNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
