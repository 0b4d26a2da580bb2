package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/services"
)

const (
	oauthStateCookie = "cb_oauth_state"
	oauthStateMaxAge = 600
)

type AuthHandler struct {
	log    *logger.Logger
	google services.GoogleLoginService
	users  services.UserService
	secure bool
}

func NewAuthHandler(log *logger.Logger, google services.GoogleLoginService, users services.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		log:    log.With("handler", "AuthHandler"),
		google: google,
		users:  users,
		secure: secureCookies,
	}
}

// GET /api/auth/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := h.google.NewState()
	if err != nil {
		h.log.Error("generate oauth state failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/api/auth", "", h.secure, true)
	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GET /api/auth/google/callback?code=...&state=...
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	want, err := c.Cookie(oauthStateCookie)
	if err != nil || want == "" || c.Query("state") != want {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid state"))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/api/auth", "", h.secure, true)
	res, err := h.google.Login(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.users.Me(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
