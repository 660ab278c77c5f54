package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type BlogHandler struct {
	blogService *services.BlogService
}

func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) ListPosts(c *gin.Context) {
	posts, err := h.blogService.ListPosts(c.Query("status"))
	if err != nil {
		respondError(c, "Failed to fetch blog posts", err)
		return
	}
	utils.SendList(c, "Blog posts retrieved successfully", posts, len(posts))
}

func (h *BlogHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id", "post ID")
	if !ok {
		return
	}

	post, err := h.blogService.GetPost(id)
	if err != nil {
		respondError(c, "Failed to fetch blog post", err)
		return
	}
	utils.SendSuccess(c, "Blog post retrieved successfully", post)
}

func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req services.BlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.blogService.CreatePost(currentActor(c).Email, req)
	if err != nil {
		respondError(c, "Failed to create blog post", err)
		return
	}
	utils.SendCreated(c, "Blog post created successfully", post)
}

func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id", "post ID")
	if !ok {
		return
	}

	var req services.BlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.blogService.UpdatePost(id, req)
	if err != nil {
		respondError(c, "Failed to update blog post", err)
		return
	}
	utils.SendSuccess(c, "Blog post updated successfully", post)
}
