package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ldurand/contacthub/internal/auth"
	"github.com/ldurand/contacthub/internal/config"
	"github.com/ldurand/contacthub/internal/domain/user"
	"github.com/ldurand/contacthub/internal/observability"
	"github.com/ldurand/contacthub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	prom       *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		prom:       prom,
	}
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=8,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) countAuth(flow, result string) {
	if h.prom != nil {
		h.prom.AuthResults.WithLabelValues(flow, result).Inc()
	}
}

// Register validates the payload, hashes the password and persists the new
// user. Only the email ever leaves this flow; the hash stays server-side.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// email doubles as the tenant key, so normalize before storing
	email := strings.ToLower(strings.TrimSpace(req.Email))

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.countAuth("register", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, email, hash)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.countAuth("register", "rejected")
			RespondBadRequest(ctx, "Email already exists", nil)
			return
		}

		h.countAuth("register", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	h.countAuth("register", "ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User successfully created",
		"data":    gin.H{"email": u.Email},
	})
}

// Login verifies the credential pair against the store and issues a signed
// bearer token with the configured TTL.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.countAuth("login", "rejected")
			RespondNotFound(ctx, "User not found")
			return
		}

		h.countAuth("login", "error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		if errors.Is(err, security.ErrInvalidCredential) {
			h.countAuth("login", "rejected")
			RespondBadRequest(ctx, "Invalid password", nil)
			return
		}

		h.countAuth("login", "error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	token, err := h.jwt.Issue(foundUser.Email)

	if err != nil {
		h.countAuth("login", "error")
		RespondInternal(ctx, "Could not generate token")
		return
	}

	h.countAuth("login", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User successfully logged in",
		"token":   token,
	})
}
