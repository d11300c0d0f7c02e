package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// AdminHandler serves the user administration screens. Role gating happens
// in the route middleware; the backend re-checks every call.
type AdminHandler struct {
	users   ports.UserAPI
	images  ports.ImageAPI
	reports ports.ReportAPI
	screens *Screens
}

func NewAdminHandler(users ports.UserAPI, images ports.ImageAPI, reports ports.ReportAPI, screens *Screens) *AdminHandler {
	return &AdminHandler{users: users, images: images, reports: reports, screens: screens}
}

type dashboardData struct {
	TotalUsers     int                 `json:"totalUsers"`
	UsersByRole    map[string]int      `json:"usersByRole"`
	TotalImages    int                 `json:"totalImages"`
	PendingReports int                 `json:"pendingReports"`
	RecentUsers    []domain.User       `json:"recentUsers"`
	Roles          []domain.RoleOption `json:"roles"`
}

type usersData struct {
	Users []domain.User       `json:"users"`
	Query string              `json:"query,omitempty"`
	Role  *domain.Role        `json:"role,omitempty"`
	Roles []domain.RoleOption `json:"roles"`
}

type roleRequest struct {
	Role *domain.Role `json:"role" validate:"required"`
}

const recentUsersCount = 5

// Dashboard renders the admin overview.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  Screen
// @Success      303
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	images, err := h.images.ListImages(ctx, domain.ImageQuery{})
	if err != nil {
		return err
	}
	pending, err := h.reports.PendingReportsCount(ctx)
	if err != nil {
		return err
	}

	byRole := make(map[string]int, len(domain.Roles()))
	for _, r := range domain.Roles() {
		byRole[r.String()] = 0
	}
	for _, u := range users {
		byRole[u.Role.String()]++
	}
	recent := users
	if len(recent) > recentUsersCount {
		recent = recent[len(recent)-recentUsersCount:]
	}

	return h.screens.Render(c, http.StatusOK, "admin", dashboardData{
		TotalUsers:     len(users),
		UsersByRole:    byRole,
		TotalImages:    len(images),
		PendingReports: pending,
		RecentUsers:    resolveUsers(h.images, recent),
		Roles:          domain.RoleOptions(),
	})
}

// Users lists users, filtered by role and a username or email fragment.
//
// @Summary      Admin user list
// @Tags         admin
// @Produce      json
// @Param        q     query     string  false  "Username or email fragment"
// @Param        role  query     int     false  "Role ordinal"
// @Success      200  {object}  Screen
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	data := usersData{Query: strings.TrimSpace(c.QueryParam("q")), Roles: domain.RoleOptions()}
	if raw := c.QueryParam("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return domain.NewValidationError("%s", err.Error())
		}
		data.Role = &role
	}

	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	q := strings.ToLower(data.Query)
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if data.Role != nil && u.Role != *data.Role {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Username), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		filtered = append(filtered, u)
	}
	data.Users = resolveUsers(h.images, filtered)
	return h.screens.Render(c, http.StatusOK, "admin-users", data)
}

// ChangeRole sets another user's role. Admins cannot change their own role.
//
// @Summary      Change user role
// @Tags         admin
// @Accept       json
// @Param        id    path  int          true  "User ID"
// @Param        body  body  roleRequest  true  "Role"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	admin, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if id == admin.ID {
		return domain.NewValidationError("you cannot change your own role")
	}
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.ChangeRole(c.Request().Context(), id, *req.Role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes another user's account.
//
// @Summary      Delete user
// @Tags         admin
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	admin, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if id == admin.ID {
		return domain.NewValidationError("you cannot delete your own account here")
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
