package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fotherbys-backend/internal/http/response"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tok, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tok)
}

// POST /api/auth/token
// Accepts an OAuth2 password form (username, password) or JSON (email, password).
func (ah *AuthHandler) Token(c *gin.Context) {
	var email, password string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		email, password = req.Email, req.Password
		if email == "" {
			email = req.Username
		}
	} else {
		email, password = c.PostForm("username"), c.PostForm("password")
	}
	if strings.TrimSpace(email) == "" || password == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("email and password are required"))
		return
	}
	tok, err := ah.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tok)
}

// GET /api/auth/users/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, me)
}
