package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/http/middleware"
	"devconnect/internal/posts"
	"devconnect/internal/users"
	"devconnect/internal/validation"
)

// PostParams is the payload for creating posts and comments.
type PostParams struct {
	Text string `json:"text" validate:"required"`
}

// CreatePostAction persists a new post with the caller's author snapshot.
func (a *API) CreatePostAction(c *fiber.Ctx) error {
	var params PostParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	author, err := a.callerSnapshot(c)
	if err != nil {
		return a.renderError(c, err)
	}

	post, err := posts.Create(a.DB, a.Logger, author, params.Text)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post)
}

// ListPostsAction returns all posts, newest first.
func (a *API) ListPostsAction(c *fiber.Ctx) error {
	result, err := posts.GetAll(a.DB)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(result)
}

// PostByIDAction returns one post.
func (a *API) PostByIDAction(c *fiber.Ctx) error {
	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	post, err := posts.GetByID(a.DB, postID)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post)
}

// DeletePostAction removes the caller's own post.
func (a *API) DeletePostAction(c *fiber.Ctx) error {
	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	if err := posts.Delete(a.DB, a.Logger, middleware.CallerID(c), postID); err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post removed"})
}

// LikePostAction adds the caller's like; liking twice is rejected.
func (a *API) LikePostAction(c *fiber.Ctx) error {
	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	post, err := posts.AddLike(a.DB, a.Logger, middleware.CallerID(c), postID)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post.Likes)
}

// UnlikePostAction removes the caller's like; unliking without one is rejected.
func (a *API) UnlikePostAction(c *fiber.Ctx) error {
	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	post, err := posts.RemoveLike(a.DB, a.Logger, middleware.CallerID(c), postID)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post.Likes)
}

// AddCommentAction prepends a comment with the caller's author snapshot.
func (a *API) AddCommentAction(c *fiber.Ctx) error {
	var params PostParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	author, err := a.callerSnapshot(c)
	if err != nil {
		return a.renderError(c, err)
	}

	post, err := posts.AddComment(a.DB, a.Logger, author, postID, params.Text)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post.Comments)
}

// DeleteCommentAction removes the caller's own comment by ID.
func (a *API) DeleteCommentAction(c *fiber.Ctx) error {
	postID, ok := a.parsePostID(c)
	if !ok {
		return postNotFoundResponse(c)
	}

	post, err := posts.DeleteComment(a.DB, a.Logger, middleware.CallerID(c), postID, c.Params("commentId"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(post.Comments)
}

// callerSnapshot loads the caller's current name and avatar for denormalization
// into posts and comments.
func (a *API) callerSnapshot(c *fiber.Ctx) (posts.AuthorSnapshot, error) {
	user, err := users.FindByID(a.DB, middleware.CallerID(c))
	if err != nil {
		return posts.AuthorSnapshot{}, err
	}
	return posts.AuthorSnapshot{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
	}, nil
}

func (a *API) parsePostID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func postNotFoundResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Post not found",
	})
}
