package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type HelpHandler struct {
	helpService *services.HelpService
}

func NewHelpHandler(helpService *services.HelpService) *HelpHandler {
	return &HelpHandler{helpService: helpService}
}

func (h *HelpHandler) ListArticles(c *gin.Context) {
	var filter services.HelpFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid query parameters")
		return
	}

	articles, err := h.helpService.ListArticles(filter)
	if err != nil {
		respondError(c, "Failed to fetch help articles", err)
		return
	}
	utils.SendList(c, "Help articles retrieved successfully", articles, len(articles))
}

func (h *HelpHandler) GetCategories(c *gin.Context) {
	categories, err := h.helpService.Categories()
	if err != nil {
		respondError(c, "Failed to fetch help categories", err)
		return
	}
	utils.SendList(c, "Help categories retrieved successfully", categories, len(categories))
}

func (h *HelpHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c, "id", "article ID")
	if !ok {
		return
	}

	article, err := h.helpService.GetArticle(id)
	if err != nil {
		respondError(c, "Failed to fetch help article", err)
		return
	}
	utils.SendSuccess(c, "Help article retrieved successfully", article)
}

func (h *HelpHandler) CreateArticle(c *gin.Context) {
	var req services.HelpArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.helpService.CreateArticle(req)
	if err != nil {
		respondError(c, "Failed to create help article", err)
		return
	}
	utils.SendCreated(c, "Help article created successfully", article)
}

func (h *HelpHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, "id", "article ID")
	if !ok {
		return
	}

	var req services.HelpArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.helpService.UpdateArticle(id, req)
	if err != nil {
		respondError(c, "Failed to update help article", err)
		return
	}
	utils.SendSuccess(c, "Help article updated successfully", article)
}

// MarkHelpful counts one vote per signed-in user, or per client IP for
// anonymous callers.
func (h *HelpHandler) MarkHelpful(c *gin.Context) {
	id, ok := parseID(c, "id", "article ID")
	if !ok {
		return
	}

	identity := c.ClientIP()
	if actor := currentActor(c); actor.UserID > 0 {
		identity = models.UserIdentifier(actor.UserID)
	}

	article, err := h.helpService.MarkHelpful(identity, id)
	if err != nil {
		respondError(c, "Failed to record vote", err)
		return
	}
	utils.SendSuccess(c, "Thank you for your feedback", article)
}
