package service

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

type chatRequest struct {
	Message      string `json:"message"`
	SessionToken string `json:"session_token"`
}

/*
handleChat runs one message through the understanding pipeline. Empty
messages are rejected here; past this point the engine always produces a
well-formed reply, even for lookup failures.
*/
func (srv *Server) handleChat(ctx fiber.Ctx) error {
	var req chatRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	result := srv.config.Engine.ProcessMessage(
		ctx.Context(), currentUserID(ctx), req.Message, req.SessionToken)

	return ctx.JSON(fiber.Map{
		"response":      result.Reply,
		"session_token": result.SessionToken,
		"session_id":    result.SessionID,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (srv *Server) handleChatHistory(ctx fiber.Ctx) error {
	sessionToken := ctx.Query("session_token")

	messages, err := srv.config.Engine.History(
		ctx.Context(), currentUserID(ctx), sessionToken, queryInt(ctx, "limit", 50))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"messages":       messages,
		"session_token":  sessionToken,
		"total_messages": len(messages),
	})
}

func (srv *Server) handleChatSessions(ctx fiber.Ctx) error {
	sessions, err := srv.config.Engine.Sessions(ctx.Context(), currentUserID(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"sessions":       sessions,
		"total_sessions": len(sessions),
	})
}

func (srv *Server) handleChatReset(ctx fiber.Ctx) error {
	token, err := srv.config.Engine.NewSessionToken()
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"session_token": token,
		"message":       "New chat session created",
	})
}
