// Package posts manages the post aggregate and its embedded like and comment
// collections.
package posts

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devconnect/internal/collections"
	"devconnect/internal/models"
)

// PostNotFoundError represents an error when a post is not found
type PostNotFoundError struct {
	PostID uint
}

func (e *PostNotFoundError) Error() string {
	return fmt.Sprintf("post not found: %d", e.PostID)
}

// NewPostNotFoundError creates a new PostNotFoundError
func NewPostNotFoundError(postID uint) *PostNotFoundError {
	return &PostNotFoundError{PostID: postID}
}

// ErrNotPostOwner is returned when a caller tries to delete someone else's post.
var ErrNotPostOwner = errors.New("post not owned by caller")

// ErrAlreadyLiked is returned when a user likes a post they already liked.
var ErrAlreadyLiked = errors.New("post already liked")

// ErrNotYetLiked is returned when a user unlikes a post they never liked.
var ErrNotYetLiked = errors.New("post has not yet been liked")

// ErrCommentNotFound is returned when a comment lookup by ID fails.
var ErrCommentNotFound = errors.New("comment not found")

// ErrNotCommentOwner is returned when a caller tries to delete someone else's comment.
var ErrNotCommentOwner = errors.New("comment not owned by caller")

// Like records that one user liked the post. Membership is exclusive per user,
// enforced by the service rather than the storage layer.
type Like struct {
	UserID uint `json:"user_id"`
}

// Comment is an embedded entry with a denormalized author snapshot, removable
// only by its author.
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeList is stored as a JSON column on the post row.
type LikeList []Like

func (l *LikeList) Scan(value interface{}) error { return models.ScanJSONColumn(l, value) }
func (l LikeList) Value() (driver.Value, error)  { return models.JSONColumnValue(l) }

// CommentList is stored as a JSON column, most recent comment first.
type CommentList []Comment

func (l *CommentList) Scan(value interface{}) error { return models.ScanJSONColumn(l, value) }
func (l CommentList) Value() (driver.Value, error)  { return models.JSONColumnValue(l) }

// Post is the aggregate. Name and Avatar are the author's snapshot at creation
// time; later profile edits do not retroactively change historical posts.
type Post struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	Text      string      `gorm:"not null" json:"text"`
	Name      string      `json:"name"`
	Avatar    string      `json:"avatar"`
	Likes     LikeList    `gorm:"type:text" json:"likes"`
	Comments  CommentList `gorm:"type:text" json:"comments"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthorSnapshot carries the denormalized author fields copied into posts and
// comments at creation time.
type AuthorSnapshot struct {
	UserID uint
	Name   string
	Avatar string
}

// Create validates and persists a new post with the author snapshot.
func Create(dbConn *gorm.DB, logger *slog.Logger, author AuthorSnapshot, text string) (*Post, error) {
	if text == "" {
		return nil, errors.New("text is required")
	}

	post := Post{
		UserID:    author.UserID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Likes:     LikeList{},
		Comments:  CommentList{},
		CreatedAt: time.Now().UTC(),
	}

	err := models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAll retrieves all posts, newest first.
func GetAll(db *gorm.DB) ([]Post, error) {
	var result []Post
	if err := db.Order("created_at DESC, id DESC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return result, nil
}

// GetByID retrieves a post by ID.
func GetByID(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewPostNotFoundError(id)
		}
		return nil, fmt.Errorf("unexpected error querying post: %w", err)
	}
	return &post, nil
}

// Delete removes a post. Only the authoring user may delete it.
func Delete(dbConn *gorm.DB, logger *slog.Logger, userID, postID uint) error {
	post, err := GetByID(dbConn, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}

	return models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Delete(&Post{}, postID).Error
	})
}

// AddLike records that the user liked the post. Liking twice returns
// ErrAlreadyLiked and leaves the collection unchanged.
func AddLike(dbConn *gorm.DB, logger *slog.Logger, userID, postID uint) (*Post, error) {
	post, err := GetByID(dbConn, postID)
	if err != nil {
		return nil, err
	}

	likes, err := collections.ToggleAdd(post.Likes, Like{UserID: userID}, func(l Like) bool {
		return l.UserID == userID
	})
	if err != nil {
		if errors.Is(err, collections.ErrDuplicateEntry) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	post.Likes = likes

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// RemoveLike removes the user's like. Unliking a post the user never liked
// returns ErrNotYetLiked.
func RemoveLike(dbConn *gorm.DB, logger *slog.Logger, userID, postID uint) (*Post, error) {
	post, err := GetByID(dbConn, postID)
	if err != nil {
		return nil, err
	}

	likes, err := collections.ToggleRemove(post.Likes, func(l Like) bool {
		return l.UserID == userID
	})
	if err != nil {
		if errors.Is(err, collections.ErrEntryNotFound) {
			return nil, ErrNotYetLiked
		}
		return nil, err
	}
	post.Likes = likes

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment prepends a comment with the author snapshot.
func AddComment(dbConn *gorm.DB, logger *slog.Logger, author AuthorSnapshot, postID uint, text string) (*Post, error) {
	if text == "" {
		return nil, errors.New("text is required")
	}

	post, err := GetByID(dbConn, postID)
	if err != nil {
		return nil, err
	}

	comment := Comment{
		ID:        uuid.NewString(),
		UserID:    author.UserID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post.Comments = collections.PushFront(post.Comments, comment)

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteComment removes a comment by ID. Only the comment's author may delete it.
func DeleteComment(dbConn *gorm.DB, logger *slog.Logger, userID, postID uint, commentID string) (*Post, error) {
	post, err := GetByID(dbConn, postID)
	if err != nil {
		return nil, err
	}

	comments, err := collections.RemoveOwned(post.Comments,
		func(c Comment) bool { return c.ID == commentID },
		func(c Comment) bool { return c.UserID == userID },
	)
	if err != nil {
		if errors.Is(err, collections.ErrEntryNotFound) {
			return nil, ErrCommentNotFound
		}
		if errors.Is(err, collections.ErrEntryNotOwned) {
			return nil, ErrNotCommentOwner
		}
		return nil, err
	}
	post.Comments = comments

	err = models.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}
