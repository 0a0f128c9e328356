package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"codechat/config"
	"codechat/internal/apperrors"
	"codechat/internal/ollama"
	"codechat/internal/prompt"
	"codechat/internal/store"
)

type ChatController struct {
	config        *config.Config
	projects      store.ProjectRepository
	conversations store.ConversationRepository
	llm           *ollama.Client
}

type chatRequest struct {
	Message        string `json:"message"`
	Model          string `json:"model"`
	ConversationID string `json:"conversationId"`
	ProjectID      string `json:"projectId"`
}

type chatResponse struct {
	Response       string `json:"response"`
	Model          string `json:"model"`
	ConversationID string `json:"conversationId"`
	MessageCount   int    `json:"messageCount"`
}

type conversationResponse struct {
	ConversationID string          `json:"conversationId"`
	Messages       []store.Message `json:"messages"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	MessageCount   int             `json:"messageCount"`
}

func NewChatController(cfg *config.Config, projects store.ProjectRepository, conversations store.ConversationRepository, llm *ollama.Client) *ChatController {
	return &ChatController{
		config:        cfg,
		projects:      projects,
		conversations: conversations,
		llm:           llm,
	}
}

// Chat runs one turn: validate, build context, dispatch to the model, record
// the exchange. The user message is appended before dispatch, so a failed
// generation leaves it in the conversation without an assistant reply; that
// inconsistency is deliberate and observable.
func (cc *ChatController) Chat(c echo.Context) error {
	// Received -> Validated
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return respondError(c, cc.config, apperrors.Validation("Valid message is required"))
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// An unknown project id falls back to the generic assistant preamble.
	var project *store.Project
	if req.ProjectID != "" {
		if p, ok := cc.projects.Get(req.ProjectID); ok {
			project = p
		}
	}

	// ContextBuilt: the history snapshot excludes the current turn, which is
	// appended right after.
	history := []store.Message{}
	if conv, ok := cc.conversations.Get(conversationID); ok {
		history = conv.Messages
	}
	cc.conversations.Append(conversationID, store.Message{
		Role:      "user",
		Content:   req.Message,
		Timestamp: time.Now(),
	})
	assembled := prompt.Assemble(project, req.Message, history)

	// Dispatched -> Completed | Failed
	result, err := cc.llm.Generate(c.Request().Context(), req.Model, assembled)
	if err != nil {
		c.Logger().Errorf("Generation failed for conversation %s: %v", conversationID, err)
		return respondError(c, cc.config, err)
	}

	conv := cc.conversations.Append(conversationID, store.Message{
		Role:      "assistant",
		Content:   result.Response,
		Timestamp: time.Now(),
		Model:     result.Model,
	})

	return c.JSON(http.StatusOK, chatResponse{
		Response:       result.Response,
		Model:          result.Model,
		ConversationID: conversationID,
		MessageCount:   len(conv.Messages),
	})
}

// ChatLegacy is the deprecated single-turn endpoint: no context assembly and
// no conversation record.
func (cc *ChatController) ChatLegacy(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return respondError(c, cc.config, apperrors.Validation("Valid message is required"))
	}

	result, err := cc.llm.Generate(c.Request().Context(), req.Model, req.Message)
	if err != nil {
		return respondError(c, cc.config, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"response": result.Response,
		"model":    result.Model,
	})
}

// Models proxies the upstream tag listing.
func (cc *ChatController) Models(c echo.Context) error {
	models, err := cc.llm.ListModels(c.Request().Context())
	if err != nil {
		return respondError(c, cc.config, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"models": models,
		"count":  len(models),
	})
}

func (cc *ChatController) GetConversation(c echo.Context) error {
	id := c.Param("id")
	conv, ok := cc.conversations.Get(id)
	if !ok {
		return respondError(c, cc.config, apperrors.NotFound("Conversation not found"))
	}

	return c.JSON(http.StatusOK, conversationResponse{
		ConversationID: id,
		Messages:       conv.Messages,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
		MessageCount:   len(conv.Messages),
	})
}

func (cc *ChatController) DeleteConversation(c echo.Context) error {
	if !cc.conversations.Delete(c.Param("id")) {
		return respondError(c, cc.config, apperrors.NotFound("Conversation not found"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Conversation deleted",
	})
}
