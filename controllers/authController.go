package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"civicsync/config"
	"civicsync/middlewares"
	"civicsync/models"
	"civicsync/session"
)

// Registrar adds accounts to the identity directory.
type Registrar interface {
	Register(ctx context.Context, name, email, password string) (models.Identity, error)
}

// AuthController handles registration and the login session.
type AuthController struct {
	sessions  *session.Manager
	directory Registrar
	cfg       *config.Config
	log       *logrus.Logger
}

func NewAuthController(sessions *session.Manager, directory Registrar, cfg *config.Config, log *logrus.Logger) *AuthController {
	return &AuthController{sessions: sessions, directory: directory, cfg: cfg, log: log}
}

// RegisterUser handles user registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	identity, err := ac.directory.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusCreated, identity)
}

// LoginUser opens a session and hands the token back both as a cookie and in
// the body.
func (ac *AuthController) LoginUser(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	token, identity, err := ac.sessions.Login(ctx, creds)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	ac.setAuthCookie(c, token, int(ac.sessions.TTL().Seconds()))
	ac.log.WithField("user_id", identity.ID).Info("user logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  identity,
	})
}

// GetMe returns the identity held by the current session.
func (ac *AuthController) GetMe(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, identity)
}

// LogoutUser clears the session and the auth_token cookie. It succeeds even
// when there is no session.
func (ac *AuthController) LogoutUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := ac.sessions.Logout(ctx, middlewares.TokenFromRequest(c)); err != nil {
		ac.log.WithError(err).Warn("failed to drop session")
	}

	ac.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func (ac *AuthController) setAuthCookie(c *gin.Context, token string, maxAge int) {
	domain := ac.cfg.Domain
	// For production, don't set domain to allow cross-origin cookies
	if ac.cfg.IsProduction() {
		domain = ""
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   domain,
		Secure:   ac.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
