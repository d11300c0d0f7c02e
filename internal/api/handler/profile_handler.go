package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// ProfileAPIs groups the backend APIs the profile screens need.
type ProfileAPIs struct {
	Users   ports.UserAPI
	Images  ports.ImageAPI
	Likes   ports.LikeAPI
	Saved   ports.SavedAPI
	Follows ports.FollowAPI
}

// ProfileHandler serves the own-profile screen, account settings and public
// user pages.
type ProfileHandler struct {
	api          ProfileAPIs
	interactions ports.InteractionService
	screens      *Screens
}

func NewProfileHandler(api ProfileAPIs, interactions ports.InteractionService, screens *Screens) *ProfileHandler {
	return &ProfileHandler{api: api, interactions: interactions, screens: screens}
}

const (
	tabImages    = "images"
	tabSaved     = "saved"
	tabLiked     = "liked"
	tabFollowers = "followers"
	tabFollowing = "following"
)

type profileData struct {
	User      domain.User         `json:"user"`
	Counts    domain.FollowCounts `json:"counts"`
	Tab       string              `json:"tab"`
	Images    []domain.Image      `json:"images,omitempty"`
	Users     []domain.User       `json:"users,omitempty"`
	Own       bool                `json:"own"`
	Following *bool               `json:"following,omitempty"`
}

type passwordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// Profile renders the logged-in user's own profile.
//
// @Summary      Own profile
// @Tags         profile
// @Produce      json
// @Param        tab  query     string  false  "images, saved, liked, followers or following"
// @Success      200  {object}  Screen
// @Success      202  {object}  map[string]string
// @Success      303
// @Router       /profile [get]
func (h *ProfileHandler) Profile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	data, err := h.profile(c, *user, c.QueryParam("tab"), true)
	if err != nil {
		return err
	}
	return h.screens.Render(c, http.StatusOK, "profile", data)
}

// UserProfile renders another user's public page. A logged-in viewer also
// gets the follow state, seeded for later toggles.
//
// @Summary      Public profile
// @Tags         profile
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        tab       query     string  false  "images, followers or following"
// @Success      200  {object}  Screen
// @Failure      404  {object}  map[string]string
// @Router       /users/{username} [get]
func (h *ProfileHandler) UserProfile(c echo.Context) error {
	ctx := c.Request().Context()
	target, err := h.api.Users.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return err
	}

	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	viewer := store.Snapshot().User

	own := viewer != nil && viewer.ID == target.ID
	tab := c.QueryParam("tab")
	if !own && (tab == tabSaved || tab == tabLiked) {
		tab = tabImages
	}
	data, err := h.profile(c, *target, tab, own)
	if err != nil {
		return err
	}
	if viewer != nil && !own {
		following, err := h.api.Follows.IsFollowing(ctx, target.ID)
		if err != nil {
			return err
		}
		h.interactions.SeedFollow(store.Key(), target.ID, following)
		data.Following = &following
	}
	return h.screens.Render(c, http.StatusOK, "user", data)
}

func (h *ProfileHandler) profile(c echo.Context, user domain.User, tab string, own bool) (profileData, error) {
	ctx := c.Request().Context()
	data := profileData{User: resolveUser(h.api.Images, user), Tab: tab, Own: own}

	counts, err := h.api.Follows.FollowCounts(ctx, user.ID)
	if err != nil {
		return data, err
	}
	data.Counts = *counts

	var (
		imgs  []domain.Image
		users []domain.User
	)
	switch tab {
	case tabSaved:
		imgs, err = h.api.Saved.SavedImages(ctx)
	case tabLiked:
		imgs, err = h.api.Likes.LikedImages(ctx, user.ID)
	case tabFollowers:
		users, err = h.api.Follows.Followers(ctx, user.ID)
	case tabFollowing:
		users, err = h.api.Follows.Following(ctx, user.ID)
	default:
		data.Tab = tabImages
		imgs, err = h.api.Images.ListImages(ctx, domain.ImageQuery{UserID: user.ID})
	}
	if err != nil {
		return data, err
	}
	if imgs != nil {
		data.Images = resolveImages(h.api.Images, imgs)
	}
	if users != nil {
		data.Users = resolveUsers(h.api.Images, users)
	}
	return data, nil
}

// UpdateProfile saves the profile form and refreshes the session's user so
// the new details show everywhere.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProfileUpdate  true  "Changes"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Router       /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	var update domain.ProfileUpdate
	if err := bind(c, &update); err != nil {
		return err
	}
	if _, err := h.api.Users.UpdateUser(c.Request().Context(), user.ID, update); err != nil {
		return err
	}
	if err := store.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: store.Snapshot(), Message: "Profile updated"})
}

// ChangePassword changes the logged-in user's password.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      passwordRequest  true  "Passwords"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /profile/password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req passwordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.api.Users.ChangePassword(c.Request().Context(), domain.PasswordChange{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed"})
}

// ToggleFollow follows or unfollows a user optimistically.
//
// @Summary      Toggle follow
// @Tags         interactions
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  ports.ToggleState
// @Failure      400  {object}  map[string]string
// @Router       /follow/{id} [post]
func (h *ProfileHandler) ToggleFollow(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	target, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if target == user.ID {
		return domain.NewValidationError("you cannot follow yourself")
	}
	return toggle(c, "id", h.interactions.ToggleFollow)
}
