package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

// AssistantHandler serves the placeholder recipe assistant and receipt scanner
type AssistantHandler struct {
	assistant   service.IAssistantService
	ocr         service.IOCRService
	requireAuth gin.HandlerFunc
	responder
}

func NewAssistantHandler(assistant service.IAssistantService, ocr service.IOCRService, common Common) *AssistantHandler {
	return &AssistantHandler{
		assistant:   assistant,
		ocr:         ocr,
		requireAuth: orPassThrough(common.RequireAuth),
		responder:   common.responder(),
	}
}

func (h *AssistantHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	ai.Use(h.requireAuth)
	{
		ai.POST("/generate-recipe", h.GenerateRecipe)
		ai.GET("/recommendations", h.Recommendations)
		ai.POST("/analyze-nutrition", h.AnalyzeNutrition)
		ai.POST("/suggest-substitutes", h.SuggestSubstitutes)
		ai.POST("/optimize-recipe", h.OptimizeRecipe)
	}

	ocr := router.Group("/ocr")
	ocr.Use(h.requireAuth)
	{
		ocr.POST("/process-ticket", h.ProcessTicket)
		ocr.GET("/history", h.TicketHistory)
		ocr.POST("/validate-image", h.ValidateImage)
	}
}

func (h *AssistantHandler) GenerateRecipe(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	generated, err := h.assistant.GenerateRecipe(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, generated)
}

func (h *AssistantHandler) Recommendations(c *gin.Context) {
	recs, err := h.assistant.Recommendations(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *AssistantHandler) AnalyzeNutrition(c *gin.Context) {
	var req types.AnalyzeNutritionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	analysis, err := h.assistant.AnalyzeNutrition(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *AssistantHandler) SuggestSubstitutes(c *gin.Context) {
	var req types.SuggestSubstitutesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subs, err := h.assistant.SuggestSubstitutes(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (h *AssistantHandler) OptimizeRecipe(c *gin.Context) {
	var req types.OptimizeRecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	opt, err := h.assistant.OptimizeRecipe(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, opt)
}

func (h *AssistantHandler) ProcessTicket(c *gin.Context) {
	var req types.ProcessTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.ocr.ProcessTicket(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AssistantHandler) TicketHistory(c *gin.Context) {
	history, err := h.ocr.History(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ValidateImage always answers 200; the verdict is in the body
func (h *AssistantHandler) ValidateImage(c *gin.Context) {
	var req types.ValidateImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.ocr.ValidateImage(c.Request.Context(), req.Image))
}
