// Package groupdelivery manages delivery layer of groups.
package groupdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by group delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package groupdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateGroupParams) (domain.Group, error)
	Get(ctx context.Context, id int32) (domain.Group, error)
	AddMember(ctx context.Context, groupID int32, username string) ([]string, error)
	ListMembers(ctx context.Context, groupID int32) ([]string, error)
	Update(ctx context.Context, arg domain.UpdateGroupParams, actingMember string) (domain.Group, error)
	Delete(ctx context.Context, id int32, actingMember string) error
	ListByMember(ctx context.Context, username string) ([]domain.Group, error)
	CheckMembers(ctx context.Context, groupID int32, usernames ...string) error
}

// Handler facilitates group delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns group handler.
func NewHandler(gs Service) Handler {
	return Handler{service: gs}
}

type groupData struct {
	Group domain.Group `json:"group"`
}

type membersData struct {
	Members []string `json:"members"`
}

type groupsData struct {
	Groups []domain.Group `json:"groups"`
}

// GroupURI is the uri of every group scoped route.
type GroupURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// ActingQuery names the member on whose behalf a restricted action runs.
type ActingQuery struct {
	Member string `form:"member" binding:"required,alphanum"`
}

type createRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Admin       string `json:"admin" binding:"required,alphanum"`
}

// Create handles http request to create group.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	arg := domain.CreateGroupParams{
		Name:        req.Name,
		Description: req.Description,
		Admin:       req.Admin,
	}

	group, err := h.service.Create(ctx, arg)
	if err != nil {
		if err == domain.ErrMemberNotFound {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: groupData{group}})
}

// Get handles http request to get group.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	group, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		if err == domain.ErrGroupNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: groupData{group}})
}

type addMemberRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
}

// AddMember handles http request to add a member to the group.
func (h *Handler) AddMember(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req addMemberRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	members, err := h.service.AddMember(ctx, uri.ID, req.Username)
	if err != nil {
		switch err {
		case domain.ErrGroupNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrMemberNotFound:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: membersData{members}})
}

// ListMembers handles http request to list the group members.
func (h *Handler) ListMembers(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	members, err := h.service.ListMembers(ctx, uri.ID)
	if err != nil {
		if err == domain.ErrGroupNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: membersData{members}})
}

type updateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// Update handles http request to rename or redescribe the group on behalf of its admin.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var acting ActingQuery
	if err := gctx.ShouldBindQuery(&acting); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	arg := domain.UpdateGroupParams{
		ID:          uri.ID,
		Name:        req.Name,
		Description: req.Description,
	}

	group, err := h.service.Update(ctx, arg, acting.Member)
	if err != nil {
		switch err {
		case domain.ErrGroupNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrNotGroupAdmin:
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: groupData{group}})
}

type memberURI struct {
	Username string `uri:"username" binding:"required,alphanum"`
}

// ListByMember handles http request to list the groups of a member.
func (h *Handler) ListByMember(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri memberURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	groups, err := h.service.ListByMember(ctx, uri.Username)
	if err != nil {
		if err == domain.ErrMemberNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: groupsData{groups}})
}

// Delete handles http request to delete the group on behalf of its admin.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req ActingQuery
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	if err := h.service.Delete(ctx, uri.ID, req.Member); err != nil {
		switch err {
		case domain.ErrGroupNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrNotGroupAdmin:
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}
