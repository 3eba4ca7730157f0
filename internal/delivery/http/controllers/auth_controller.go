package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// LoginRequest is the request body for POST /admin/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for POST /admin/login
type LoginResponse struct {
	Token     string                `json:"token"`
	TokenType string                `json:"token_type"`
	User      *domain.AdminIdentity `json:"user"`
}

// LoginSuccessResponse is the success response envelope for POST /admin/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
	// SecureCookie marks the token cookie Secure; enabled in production.
	SecureCookie bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		Logger:       logger,
		Service:      svc,
		SecureCookie: secureCookie,
	}
}

func (c *AuthController) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// Login godoc
// @Summary Admin log in
// @Description Authenticates the configured admin. The JWT is returned in the body and set as an HTTP-only "token" cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Admin credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, identity, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		c.Logger.InfoContext(r.Context(), "admin login failed", "username", req.Username)
		writeServiceError(w, r, c.Logger, err)
		return
	}
	http.SetCookie(w, c.tokenCookie(token, int(c.Service.TokenExpiry()/time.Second)))
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: identity})
}

// Logout godoc
// @Summary Admin log out
// @Description Clears the token cookie. Tokens are stateless, so a copied token stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} controllers.MessageSuccessResponse
// @Router /admin/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, c.tokenCookie("", -1))
	h.WriteJSONSuccess(w, http.StatusOK, h.MessageResponse{Message: "Logged out successfully"})
}
