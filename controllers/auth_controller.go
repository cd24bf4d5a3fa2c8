// Package controllers controllers/auth_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"founders-fest/logger"
	"founders-fest/middleware"
	"founders-fest/models"
	"founders-fest/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserStore looks up sign-in identities.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// HashPassword returns a bcrypt hash for storing a new password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ---------------- Auth Controller ----------------

// AuthController signs admins in and out. Signing in only proves identity;
// the allow-list is checked by middleware.AdminRequired on every request.
type AuthController struct {
	Users UserStore
}

// NewAuthController initializes an AuthController.
func NewAuthController(users UserStore) *AuthController {
	return &AuthController{Users: users}
}

// ShowLoginPage renders the login form. A signed-in user reaching it is not
// an admin, so the form says so.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	data := gin.H{}
	if middleware.SessionUserID(c) != 0 {
		data["Error"] = "This account does not have admin access. Sign in with another account."
	}
	c.HTML(http.StatusOK, "login.html", data)
}

// Login checks the email and password and starts a session.
func (ac *AuthController) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if email == "" || password == "" {
		logger.Warn.Println("Login: Missing email or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Email": email,
			"Error": "Please fill in all fields.",
		})
		return
	}

	user, err := ac.Users.UserByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Error.Printf("Login: user lookup failed: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Email": email,
			"Error": "Internal error, please try again later.",
		})
		return
	}
	if user == nil || !ComparePasswords(user.PasswordHash, password) {
		logger.Warn.Printf("Login: Invalid login attempt for %s", email)
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Email": email,
			"Error": "Invalid email or password.",
		})
		return
	}

	if err := middleware.SignIn(c, user.ID, user.Email); err != nil {
		logger.Error.Println("Login: Failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Email": email,
			"Error": "Internal error, please try again.",
		})
		return
	}
	logger.Info.Printf("Login: User %s signed in", user.Email)
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

// Logout clears the session and returns to the login page.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
	} else {
		logger.Info.Println("Logout: Session cleared successfully")
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
