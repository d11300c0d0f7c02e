package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
)

// SessionHandler serves the login, registration and logout flows.
type SessionHandler struct {
	screens  *Screens
	homePath string
}

func NewSessionHandler(screens *Screens, homePath string) *SessionHandler {
	return &SessionHandler{screens: screens, homePath: homePath}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Fullname        string `json:"fullname"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type sessionResponse struct {
	Session  domain.Session `json:"session"`
	Redirect string         `json:"redirect,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// LoginScreen renders the login form, or sends logged-in users home.
//
// @Summary      Login screen
// @Tags         session
// @Produce      json
// @Success      200  {object}  Screen
// @Success      303
// @Router       /login [get]
func (h *SessionHandler) LoginScreen(c echo.Context) error {
	return h.formScreen(c, "login")
}

// RegisterScreen renders the sign-up form.
//
// @Summary      Registration screen
// @Tags         session
// @Produce      json
// @Success      200  {object}  Screen
// @Router       /register [get]
func (h *SessionHandler) RegisterScreen(c echo.Context) error {
	return h.formScreen(c, "register")
}

func (h *SessionHandler) formScreen(c echo.Context, name string) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	if store.Snapshot().User != nil {
		return c.Redirect(http.StatusSeeOther, h.homePath)
	}
	return h.screens.Render(c, http.StatusOK, name, nil)
}

// Login authenticates the browser session.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	if _, err := store.Login(c.Request().Context(), domain.Credentials{Username: req.Username, Password: req.Password}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: store.Snapshot(), Redirect: h.homePath})
}

// Register creates an account without logging in.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	reg := domain.Registration{
		Username:        req.Username,
		Email:           req.Email,
		Fullname:        req.Fullname,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := store.Register(c.Request().Context(), reg); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{
		Session:  store.Snapshot(),
		Redirect: "/login",
		Message:  "Registration successful, please log in",
	})
}

// Logout ends the session. It always succeeds.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	store.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{Session: store.Snapshot(), Redirect: h.homePath})
}

// Session returns the current session snapshot.
//
// @Summary      Session snapshot
// @Tags         session
// @Produce      json
// @Success      200  {object}  Screen
// @Router       /session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	return h.screens.Render(c, http.StatusOK, "session", nil)
}
