// Package settlementdelivery manages delivery layer of balances and settlements.
package settlementdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/groupdelivery"
	"github.com/go-petr/pet-split/internal/settle"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by settlement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package settlementdelivery
type Service interface {
	Balances(ctx context.Context, groupID int32) ([]settle.Balance, error)
	Suggest(ctx context.Context, groupID int32) (settle.Summary, error)
	Record(ctx context.Context, arg domain.CreateSettlementParams) (domain.Settlement, error)
	List(ctx context.Context, groupID int32) ([]domain.Settlement, error)
	MarkPaid(ctx context.Context, id int64, actingMember string) (domain.Settlement, error)
}

// Handler facilitates settlement delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns settlement handler.
func NewHandler(ss Service) Handler {
	return Handler{service: ss}
}

type balancesData struct {
	Balances []settle.Balance `json:"balances"`
}

type settlementData struct {
	Settlement domain.Settlement `json:"settlement"`
}

type listData struct {
	Settlements []domain.Settlement `json:"settlements"`
}

func groupError(gctx *gin.Context, err error) {
	if err == domain.ErrGroupNotFound {
		gctx.JSON(http.StatusNotFound, web.Error(err))
		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}

// Balances handles http request to get the net balance of every group member.
func (h *Handler) Balances(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	balances, err := h.service.Balances(ctx, uri.ID)
	if err != nil {
		groupError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balancesData{balances}})
}

// Suggest handles http request to compute the transfers that settle the group.
func (h *Handler) Suggest(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	summary, err := h.service.Suggest(ctx, uri.ID)
	if err != nil {
		groupError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: summary})
}

type recordRequest struct {
	Payer    string `json:"payer" binding:"required,alphanum"`
	Receiver string `json:"receiver" binding:"required,alphanum,nefield=Payer"`
	Amount   string `json:"amount" binding:"required,amount"`
	Currency string `json:"currency" binding:"required,currency"`
}

// Record handles http request to record a settlement between two group members.
func (h *Handler) Record(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req recordRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	arg := domain.CreateSettlementParams{
		GroupID:  uri.ID,
		Payer:    req.Payer,
		Receiver: req.Receiver,
		Amount:   req.Amount,
		Currency: req.Currency,
	}

	settlement, err := h.service.Record(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrGroupNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidAmount,
			domain.ErrNonPositiveAmount,
			domain.ErrNegativeAmount,
			domain.ErrTooManyDecimals,
			domain.ErrAmountTooLarge,
			domain.ErrUnsupportedCurrency,
			domain.ErrSelfSettlement,
			domain.ErrNotGroupMember,
			domain.ErrMemberNotFound:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: settlementData{settlement}})
}

// List handles http request to list the group settlements.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	settlements, err := h.service.List(ctx, uri.ID)
	if err != nil {
		groupError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: listData{settlements}})
}

type settlementURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// MarkPaid handles http request to mark the settlement as paid on behalf of its payer or receiver.
func (h *Handler) MarkPaid(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri settlementURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var acting groupdelivery.ActingQuery
	if err := gctx.ShouldBindQuery(&acting); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	settlement, err := h.service.MarkPaid(ctx, uri.ID, acting.Member)
	if err != nil {
		switch err {
		case domain.ErrSettlementNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrNotSettlementParty:
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		case domain.ErrSettlementAlreadyPaid:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: settlementData{settlement}})
}
