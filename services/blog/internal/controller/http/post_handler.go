package http

import (
	"net/http"
	"strconv"
	"time"

	"blog-api/pkg/logger"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

// ListPosts godoc
// @Summary      List posts
// @Description  List posts with vote aggregates. Supports filtering, search and ordering.
// @Tags         posts
// @Produce      json
// @Param        time_create query string false "Created on or after (YYYY-MM-DD)"
// @Param        category    query string false "Category name contains (case-insensitive)"
// @Param        rating      query int    false "Exact rating"
// @Param        search      query string false "Search title and content"
// @Param        ordering    query string false "time_create, title or rating; prefix with - for descending"
// @Param        limit       query int    false "Page size"
// @Param        offset      query int    false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /posts/ [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter, err := parsePostFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	posts, total, err := h.postUseCase.ListPosts(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": posts})
}

func parsePostFilter(c *gin.Context) (entity.PostFilter, error) {
	filter := entity.PostFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    defaultPageSize,
	}

	if raw := c.Query("time_create"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, entity.NewValidationError("time_create", "enter a valid date (YYYY-MM-DD)")
		}
		filter.CreatedFrom = &from
	}

	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, entity.NewValidationError("rating", "enter a whole number")
		}
		filter.Rating = &rating
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, entity.NewValidationError("limit", "enter a positive whole number")
		}
		filter.Limit = min(limit, maxPageSize)
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, entity.NewValidationError("offset", "enter a non-negative whole number")
		}
		filter.Offset = offset
	}

	return filter, nil
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post body entity.PostInput true "Post"
// @Success      201  {object}  entity.PostDetail
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /posts/ [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input entity.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), actor(c), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get post detail
// @Description  Returns the post with its vote aggregates and counts a view. Served from cache when possible.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  entity.PostDetail
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/ [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.postUseCase.GetPostDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetEditablePost godoc
// @Summary      Get a post for editing
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  entity.PostDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post_edit/{id}/ [get]
func (h *PostHandler) GetEditablePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.postUseCase.GetEditablePost(c.Request.Context(), actor(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  PUT replaces title, content and category; PATCH changes only the supplied fields.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Param        post body entity.PostInput true "Post fields"
// @Success      200  {object}  entity.PostDetail
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post_edit/{id}/ [put]
// @Router       /post_edit/{id}/ [patch]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input entity.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, h.logger, bindError(err))
		return
	}

	partial := c.Request.Method == http.MethodPatch
	post, err := h.postUseCase.UpdatePost(c.Request.Context(), actor(c), id, input, partial)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post_edit/{id}/ [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.postUseCase.DeletePost(c.Request.Context(), actor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadCover godoc
// @Summary      Upload a post cover image
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int   true  "Post ID"
// @Param        cover formData  file  true  "Cover image"
// @Success      200  {object}  entity.PostDetail
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /post_edit/{id}/cover/ [post]
func (h *PostHandler) UploadCover(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		writeError(c, h.logger, entity.NewValidationError("cover", "no file was submitted"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded cover: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := file.Read(sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, 0); err != nil {
			writeError(c, h.logger, err)
			return
		}
	}

	post, err := h.postUseCase.UploadCover(c.Request.Context(), actor(c), id, fileHeader.Filename, contentType, file)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
