package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"blog-api/pkg/logger"
	"blog-api/services/blog/internal/entity"
	"blog-api/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	ledger      usecase.VoteLedger
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewVoteHandler(ledger usecase.VoteLedger, postUseCase usecase.PostUseCase, logger *logger.Logger) *VoteHandler {
	return &VoteHandler{
		ledger:      ledger,
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type voteRequest struct {
	IsLike json.RawMessage `json:"is_like" swaggertype:"boolean"`
}

// CastVote godoc
// @Summary      Like or dislike a post
// @Description  Records the caller's decision. A repeated vote overwrites the previous one.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int          true  "Post ID"
// @Param        vote body      voteRequest  true  "Decision"
// @Success      201  {object}  map[string]interface{}  "first vote"
// @Success      200  {object}  map[string]interface{}  "vote changed"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/like/ [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, h.logger, entity.NewValidationError("is_like", "malformed request body"))
		return
	}

	isLike, err := entity.ParseDecision(req.IsLike)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	created, err := h.ledger.CastVote(c.Request.Context(), actor(c).UserID, postID, isLike)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"post": postID, "is_like": isLike})
}

// GetRating godoc
// @Summary      Get like/dislike totals of a post
// @Tags         votes
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  entity.PostRating
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/likes_count/ [get]
func (h *VoteHandler) GetRating(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rating, err := h.postUseCase.GetRating(c.Request.Context(), postID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}
