// Package memberdelivery manages delivery layer of members.
package memberdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by member delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package memberdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateMemberParams) (domain.Member, error)
	Get(ctx context.Context, username string) (domain.Member, error)
}

// Handler facilitates member delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns member handler.
func NewHandler(ms Service) Handler {
	return Handler{service: ms}
}

type data struct {
	Member domain.Member `json:"member"`
}

type createRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// Create handles http request to create member.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	arg := domain.CreateMemberParams{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
	}

	member, err := h.service.Create(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrUsernameAlreadyExists, domain.ErrEmailAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{member}})
}

type getRequest struct {
	Username string `uri:"username" binding:"required,alphanum"`
}

// Get handles http request to get member.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	member, err := h.service.Get(ctx, req.Username)
	if err != nil {
		if err == domain.ErrMemberNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{member}})
}
