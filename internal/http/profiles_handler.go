package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/http/middleware"
	"devconnect/internal/profiles"
	"devconnect/internal/users"
	"devconnect/internal/validation"
)

// UpsertProfileParams is the POST /api/profile payload. Pointer fields keep
// "absent" distinct from "set to empty" so updates never null untouched fields.
type UpsertProfileParams struct {
	Status string `json:"status" validate:"required"`
	Skills string `json:"skills" validate:"required"`

	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`

	Youtube   *string `json:"youtube"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	Linkedin  *string `json:"linkedin"`
	Facebook  *string `json:"facebook"`
	Dribbble  *string `json:"dribbble"`
}

// ExperienceParams is the PUT /api/profile/experience payload.
type ExperienceParams struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationParams is the PUT /api/profile/education payload.
type EducationParams struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ListProfilesAction returns every profile with owner name/avatar. Public.
func (a *API) ListProfilesAction(c *fiber.Ctx) error {
	result, err := profiles.GetAll(a.DB)
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(result)
}

// MyProfileAction returns the caller's own profile.
func (a *API) MyProfileAction(c *fiber.Ctx) error {
	profile, err := profiles.GetByUserIDWithOwner(a.DB, middleware.CallerID(c))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// ProfileByUserAction returns the profile owned by the given user ID. Public.
func (a *API) ProfileByUserAction(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	profile, err := profiles.GetByUserIDWithOwner(a.DB, uint(userID))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfileAction creates or merges the caller's profile.
func (a *API) UpsertProfileAction(c *fiber.Ctx) error {
	var params UpsertProfileParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	profile, err := profiles.Upsert(a.DB, a.Logger, middleware.CallerID(c), profiles.UpsertFields{
		Status:         params.Status,
		Skills:         params.Skills,
		Company:        params.Company,
		Website:        params.Website,
		Location:       params.Location,
		Bio:            params.Bio,
		GithubUsername: params.GithubUsername,
		Youtube:        params.Youtube,
		Twitter:        params.Twitter,
		Instagram:      params.Instagram,
		Linkedin:       params.Linkedin,
		Facebook:       params.Facebook,
		Dribbble:       params.Dribbble,
	})
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// DeleteProfileAction removes the caller's profile, account, and posts.
func (a *API) DeleteProfileAction(c *fiber.Ctx) error {
	if err := users.DeleteAccount(a.DB, a.Logger, middleware.CallerID(c)); err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}

// AddExperienceAction prepends a work-history entry to the caller's profile.
func (a *API) AddExperienceAction(c *fiber.Ctx) error {
	var params ExperienceParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	from, to, fieldErrs := parseEntryDates(params.From, params.To)
	if fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	profile, err := profiles.AddExperience(a.DB, a.Logger, middleware.CallerID(c), profiles.Experience{
		Title:       params.Title,
		Company:     params.Company,
		Location:    params.Location,
		From:        from,
		To:          to,
		Current:     params.Current,
		Description: params.Description,
	})
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperienceAction deletes a work-history entry by ID.
func (a *API) RemoveExperienceAction(c *fiber.Ctx) error {
	profile, err := profiles.RemoveExperience(a.DB, a.Logger, middleware.CallerID(c), c.Params("id"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// AddEducationAction prepends an education entry to the caller's profile.
func (a *API) AddEducationAction(c *fiber.Ctx) error {
	var params EducationParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	from, to, fieldErrs := parseEntryDates(params.From, params.To)
	if fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	profile, err := profiles.AddEducation(a.DB, a.Logger, middleware.CallerID(c), profiles.Education{
		School:       params.School,
		Degree:       params.Degree,
		FieldOfStudy: params.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      params.Current,
		Description:  params.Description,
	})
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducationAction deletes an education entry by ID.
func (a *API) RemoveEducationAction(c *fiber.Ctx) error {
	profile, err := profiles.RemoveEducation(a.DB, a.Logger, middleware.CallerID(c), c.Params("id"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(profile)
}

// GithubReposAction proxies the external repository lookup for a username.
func (a *API) GithubReposAction(c *fiber.Ctx) error {
	repos, err := a.Github.ListRepos(c.Context(), c.Params("username"))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(repos)
}

// parseEntryDates parses the from/to fields of history entries. Dates arrive
// either as plain days ("2020-01-01") or RFC3339 timestamps.
func parseEntryDates(fromRaw, toRaw string) (time.Time, *time.Time, []validation.FieldError) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, []validation.FieldError{
			{Field: "from", Message: "from must be a valid date"},
		}
	}

	if toRaw == "" {
		return from, nil, nil
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, []validation.FieldError{
			{Field: "to", Message: "to must be a valid date"},
		}
	}
	return from, &to, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
