package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type BlogHandler struct {
	blogSvc BlogServiceInterface
}

func NewBlogHandler(blogSvc BlogServiceInterface) *BlogHandler {
	return &BlogHandler{blogSvc: blogSvc}
}

// @Summary List published posts
// @Tags blog
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.PostListResponse}
// @Router /api/v1/posts [get]
func (h *BlogHandler) ListPublished(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	resp, err := h.blogSvc.ListPosts(page, limit, false)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// @Summary Get a published post by slug
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/posts/{slug} [get]
func (h *BlogHandler) GetBySlug(c *fiber.Ctx) error {
	resp, err := h.blogSvc.GetPublishedPost(c.Params("slug"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}
