package session

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"axiapac.com/attendance/security"
	web "axiapac.com/attendance/web/common"
	"axiapac.com/attendance/web/middlewares"
	"github.com/gin-gonic/gin"
)

// Options describes the single administrator account and its session cookie.
type Options struct {
	Email        string
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
	SecureCookie bool
}

type Endpoint struct {
	options Options
}

func Register(group *gin.RouterGroup, options Options) {
	endpoint := &Endpoint{options: options}
	group.POST("/login", endpoint.Login)
	group.POST("/logout", endpoint.Logout)
	group.GET("/check", endpoint.Check)
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string                 `json:"message"`
	Admin   security.AdminIdentity `json:"admin"`
	Token   string                 `json:"token"`
}

type CheckResponse struct {
	IsAuthenticated bool                    `json:"isAuthenticated"`
	Admin           *security.AdminIdentity `json:"admin,omitempty"`
}

func (ep *Endpoint) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, value, maxAge, "/", "", ep.options.SecureCookie, true)
}

func (ep *Endpoint) Login(c *gin.Context) {
	var body LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Email and password are required"))
		return
	}

	emailMatches := strings.EqualFold(strings.TrimSpace(body.Email), ep.options.Email)
	passwordMatches := security.CheckPassword(ep.options.PasswordHash, body.Password)
	if !emailMatches || !passwordMatches {
		slog.WarnContext(c.Request.Context(), "admin login failed", "email", body.Email, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, web.NewErrorResponse("Invalid credentials"))
		return
	}

	identity := security.AdminIdentity{Email: ep.options.Email}
	token, err := security.CreateAdminToken(identity, ep.options.Secret, ep.options.TTL)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to create admin token", "error", err)
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse("Internal server error"))
		return
	}

	ep.setCookie(c, token, int(ep.options.TTL.Seconds()))
	slog.InfoContext(c.Request.Context(), "admin logged in", "email", identity.Email)
	c.JSON(http.StatusOK, LoginResponse{Message: "Login successful", Admin: identity, Token: token})
}

func (ep *Endpoint) Logout(c *gin.Context) {
	ep.setCookie(c, "", -1)
	c.JSON(http.StatusOK, web.NewMessageResponse("Logout successful"))
}

func (ep *Endpoint) Check(c *gin.Context) {
	claims, ok := middlewares.AdminFromRequest(c, ep.options.Secret)
	if !ok {
		c.JSON(http.StatusOK, CheckResponse{IsAuthenticated: false})
		return
	}
	c.JSON(http.StatusOK, CheckResponse{IsAuthenticated: true, Admin: &security.AdminIdentity{Email: claims.Email}})
}
