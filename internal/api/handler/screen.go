package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// NavLink is one entry of the navigation sidebar.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Screen is the JSON model every page renders from.
type Screen struct {
	Screen  string         `json:"screen"`
	Nav     []NavLink      `json:"nav"`
	Session domain.Session `json:"session"`
	Unread  *int           `json:"unreadCount,omitempty"`
	Data    any            `json:"data,omitempty"`
}

type navEntry struct {
	link NavLink
	// anonymous entries show only to visitors; others need at least role.
	anonymous bool
	auth      bool
	role      domain.Role
}

var navigation = []navEntry{
	{link: NavLink{"Home", "/"}},
	{link: NavLink{"Explore", "/explore"}},
	{link: NavLink{"Search", "/search"}},
	{link: NavLink{"Create", "/upload"}, auth: true, role: domain.RoleUser},
	{link: NavLink{"Notifications", "/notifications"}, auth: true, role: domain.RoleUser},
	{link: NavLink{"Admin", "/admin"}, auth: true, role: domain.RoleAdmin},
	{link: NavLink{"Manage reports", "/manage-reports"}, auth: true, role: domain.RoleManager},
	{link: NavLink{"Profile", "/profile"}, auth: true, role: domain.RoleUser},
	{link: NavLink{"Log in", "/login"}, anonymous: true},
	{link: NavLink{"Sign up", "/register"}, anonymous: true},
}

// Nav returns the links visible to user. Role-gated links are hidden from
// users below the role; this is cosmetic, the backend enforces access.
func Nav(user *domain.User) []NavLink {
	links := make([]NavLink, 0, len(navigation))
	for _, n := range navigation {
		switch {
		case n.anonymous && user != nil:
			continue
		case n.auth && !domain.HasRole(user, n.role):
			continue
		}
		links = append(links, n.link)
	}
	return links
}

// Screens assembles screen models for the current session.
type Screens struct {
	unread ports.UnreadCounter
}

func NewScreens(unread ports.UnreadCounter) *Screens {
	return &Screens{unread: unread}
}

// Render writes the screen model with the given data.
func (s *Screens) Render(c echo.Context, code int, name string, data any) error {
	return c.JSON(code, s.Build(c, name, data))
}

// Build assembles a screen model without writing it.
func (s *Screens) Build(c echo.Context, name string, data any) Screen {
	var session domain.Session
	if store := middleware.Store(c); store != nil {
		session = store.Snapshot()
	}
	screen := Screen{
		Screen:  name,
		Nav:     Nav(session.User),
		Session: session,
		Data:    data,
	}
	if session.User != nil && s.unread != nil {
		if store := middleware.Store(c); store != nil {
			if n, ok := s.unread.Unread(store.Key()); ok {
				screen.Unread = &n
			}
		}
	}
	return screen
}
