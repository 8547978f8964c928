package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"typist/internal/app"
	"typist/internal/model"
	"typist/internal/transport/http/middleware"
	"typist/internal/transport/http/response"
)

const loginPage = "<h1>Login</h1>"

type AuthHandler struct {
	authService  *app.AuthService
	cookieName   string
	cookieSecure bool
}

// LoginRequest binds from either a form post or a JSON body.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func NewAuthHandler(authService *app.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "login failed")
		return
	}

	h.setSessionCookie(c, result.Token, int(result.ExpiresIn.Seconds()))
	response.OK(c, publicUser(result.User))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.cookieName)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		_ = c.Error(err)
	}
	h.setSessionCookie(c, "", -1)
	response.OK(c, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
		return
	}
	response.OK(c, publicUser(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, value, maxAge, "/", "", h.cookieSecure, true)
}

func publicUser(user *model.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"user_name": user.UserName,
	}
}
