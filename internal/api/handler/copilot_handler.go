package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

// CopilotHandler serves the chat simulator API.
type CopilotHandler struct {
	copilot ports.CopilotService
}

func NewCopilotHandler(copilot ports.CopilotService) *CopilotHandler {
	return &CopilotHandler{copilot: copilot}
}

// QuickActions lists the canned prompts for a persona.
//
// @Summary      Quick actions
// @Tags         copilot
// @Produce      json
// @Security     BearerAuth
// @Param        persona  query     string  false  "Technician, Manager, Planner or Engineer"
// @Success      200      {object}  quickActionsResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Router       /api/v1/copilot/quick-actions [get]
func (h *CopilotHandler) QuickActions(c echo.Context) error {
	persona, err := domain.ParsePersona(c.QueryParam("persona"))
	if err != nil {
		return err
	}

	actions := h.copilot.QuickActions(persona)
	out := quickActionsResponse{
		Persona:     persona,
		Tagline:     persona.Tagline(),
		Placeholder: persona.Placeholder(),
		Actions:     make([]quickActionResponse, len(actions)),
	}
	for i, a := range actions {
		out.Actions[i] = quickActionResponse{Label: a.Label, Query: a.Query, Expanded: service.ExpandQuickAction(a.Query)}
	}
	return c.JSON(http.StatusOK, out)
}

// Conversation returns the session's transcript, starting one if needed.
//
// @Summary      Current conversation
// @Tags         copilot
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  conversationResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/copilot/conversation [get]
func (h *CopilotHandler) Conversation(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	conv, err := h.copilot.Conversation(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toConversationResponse(conv))
}

// SendMessage posts a user message and waits for the simulated reply.
//
// @Summary      Send a message
// @Tags         copilot
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message and persona"
// @Success      200   {object}  sendMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/copilot/messages [post]
func (h *CopilotHandler) SendMessage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	persona, err := domain.ParsePersona(req.Persona)
	if err != nil {
		return err
	}

	res, err := h.copilot.Send(c.Request().Context(), sess, req.Message, persona)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sendMessageResponse{
		ConversationID:   res.ConversationID,
		UserMessage:      toMessageResponse(res.UserMessage),
		AssistantMessage: toMessageResponse(res.Reply),
	})
}

// Export downloads the transcript.
//
// @Summary      Export conversation
// @Tags         copilot
// @Produce      text/csv
// @Produce      json
// @Security     BearerAuth
// @Param        format  query  string  false  "csv (default) or json"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/copilot/conversation/export [get]
func (h *CopilotHandler) Export(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	data, contentType, err := h.copilot.Export(c.Request().Context(), sess.ID, format)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="copilot-conversation.%s"`, formatExtension(contentType)))
	return c.Blob(http.StatusOK, contentType, data)
}

func formatExtension(contentType string) string {
	if contentType == "application/json" {
		return "json"
	}
	return "csv"
}
