package service

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (srv *Server) handleRegister(ctx fiber.Ctx) error {
	var req registerRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	user, token, err := srv.config.Auth.Register(ctx.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Error("registration failed", "username", req.Username, "error", err)
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "User registered successfully",
		"access_token": token,
		"user":         user,
	})
}

func (srv *Server) handleLogin(ctx fiber.Ctx) error {
	var req loginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	user, token, err := srv.config.Auth.Login(ctx.Context(), req.Username, req.Password)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": token,
		"user":         user,
	})
}

func (srv *Server) handleCurrentUser(ctx fiber.Ctx) error {
	user, err := srv.config.Auth.CurrentUser(ctx.Context(), ctx.Get("Authorization"))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"user":    user,
		"message": "User information retrieved successfully",
	})
}
