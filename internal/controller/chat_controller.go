package controller

import (
	"strconv"

	"github.com/Rouggerxavier/projeto-chatbot/internal/dto"
	"github.com/Rouggerxavier/projeto-chatbot/internal/pkg/serverutils"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/contract"
	"github.com/Rouggerxavier/projeto-chatbot/internal/service"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService            service.IChatService
	conversationRepository contract.ConversationRepository
	store                  *state.Store
}

func NewChatController(
	chatService service.IChatService,
	conversationRepository contract.ConversationRepository,
	store *state.Store,
) IChatController {
	return &chatController{
		chatService:            chatService,
		conversationRepository: conversationRepository,
		store:                  store,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/message", c.SendMessage)
	h.Get("/history/:session_id", c.GetHistory)
	h.Post("/session/:session_id/reset", c.ResetSession)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reply, needsHuman := c.chatService.HandleMessage(ctx.Context(), req.SessionId, req.Message)

	return ctx.JSON(serverutils.SuccessResponse("Success send message", dto.SendMessageResponse{
		SessionId:  req.SessionId,
		Reply:      reply,
		NeedsHuman: needsHuman,
	}))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	turns, err := c.conversationRepository.FindRecentBySession(ctx.Context(), sessionID, limit)
	if err != nil {
		return err
	}

	res := make([]dto.ConversationTurnResponse, 0, len(turns))
	for _, t := range turns {
		res = append(res, dto.ConversationTurnResponse{
			Id:         t.Id,
			Message:    t.Message,
			Reply:      t.Reply,
			NeedsHuman: t.NeedsHuman,
			Branch:     t.Branch,
			CreatedAt:  t.CreatedAt,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) ResetSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	if err := c.store.Reset(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", dto.ResetSessionResponse{
		SessionId: sessionID,
	}))
}
