package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Congmoow/Campus-Market/models"
	"github.com/Congmoow/Campus-Market/store"
	"github.com/Congmoow/Campus-Market/utils"
)

type AuthHandler struct {
	Store store.Store
}

func NewAuthHandler(st store.Store) *AuthHandler {
	return &AuthHandler{Store: st}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// LoginRequest defines the payload for login; the account may be a username
// or a phone number.
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// ResetPasswordRequest defines the payload for the forgot-password flow.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	NewPassword string `json:"new_password"`
}

// AuthResponse is returned on register and login.
type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("username and password are required"))
	}

	ctx := c.UserContext()

	if _, err := h.Store.UserByUsername(ctx, req.Username); err == nil {
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("username is already registered"))
	} else if !errors.Is(err, store.ErrNotFound) {
		return respondError(c, err)
	}
	if req.Phone != "" {
		if _, err := h.Store.UserByPhone(ctx, req.Phone); err == nil {
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("phone number is already registered"))
		} else if !errors.Is(err, store.ErrNotFound) {
			return respondError(c, err)
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("could not hash password"))
	}

	nickname := req.Nickname
	if strings.TrimSpace(nickname) == "" {
		nickname = req.Username
	}

	user := models.User{
		Username: req.Username,
		Password: hashedPassword,
		Role:     models.RoleUser,
		Enabled:  true,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	// User and profile commit together.
	err = h.Store.Transact(ctx, func(tx store.Store) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		profile := models.UserProfile{
			UserID:   user.ID,
			Nickname: nickname,
			Credit:   models.DefaultCredit,
		}
		return tx.CreateProfile(ctx, &profile)
	})
	if err != nil {
		return respondError(c, err)
	}

	// Registration doubles as login: hand back a token right away.
	token, err := utils.GenerateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("could not issue token"))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Nickname: nickname,
		Role:     user.Role,
	}))
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}

	ctx := c.UserContext()

	user, err := h.Store.UserByUsername(ctx, req.Account)
	if errors.Is(err, store.ErrNotFound) {
		user, err = h.Store.UserByPhone(ctx, req.Account)
	}
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("invalid credentials"))
	}
	if err != nil {
		return respondError(c, err)
	}

	if !user.Enabled {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("account is disabled"))
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("invalid credentials"))
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("could not issue token"))
	}

	nickname := user.Username
	if profile, err := h.Store.ProfileByUserID(ctx, user.ID); err == nil {
		nickname = profile.Nickname
	}

	return c.JSON(models.SuccessResponse(AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Nickname: nickname,
		Role:     user.Role,
	}))
}

// Me - GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	user, err := h.Store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("user does not exist"))
	}
	if err != nil {
		return respondError(c, err)
	}

	nickname := user.Username
	if profile, err := h.Store.ProfileByUserID(ctx, user.ID); err == nil {
		nickname = profile.Nickname
	}

	return c.JSON(models.SuccessResponse(AuthResponse{
		UserID:   user.ID,
		Username: user.Username,
		Nickname: nickname,
		Role:     user.Role,
	}))
}

// ResetPassword - POST /api/auth/reset-password
// Identity is verified by the username + phone pair.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid input"))
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("new password is required"))
	}

	ctx := c.UserContext()

	user, err := h.Store.UserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("username is not registered"))
	}
	if err != nil {
		return respondError(c, err)
	}
	if user.Phone == nil || *user.Phone != req.Phone {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("phone number does not match"))
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("could not hash password"))
	}
	user.Password = hashedPassword
	if err := h.Store.UpdateUser(ctx, &user); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse("password reset successfully"))
}
