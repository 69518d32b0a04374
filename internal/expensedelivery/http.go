// Package expensedelivery manages delivery layer of expenses.
package expensedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/groupdelivery"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by expense delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package expensedelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error)
	Get(ctx context.Context, id int64) (domain.Expense, error)
	List(ctx context.Context, groupID, pageSize, pageID int32) ([]domain.Expense, error)
	Update(ctx context.Context, arg domain.UpdateExpenseParams, actingMember string) (domain.Expense, error)
	Delete(ctx context.Context, id int64, actingMember string) error
}

// Handler facilitates expense delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns expense handler.
func NewHandler(es Service) Handler {
	return Handler{service: es}
}

type data struct {
	Expense domain.Expense `json:"expense"`
}

type listData struct {
	Expenses []domain.Expense `json:"expenses"`
}

type splitRequest struct {
	Participant string `json:"participant" binding:"required,alphanum"`
	Amount      string `json:"amount" binding:"required"`
}

type createRequest struct {
	Description  string         `json:"description" binding:"required,max=200"`
	Amount       string         `json:"amount" binding:"required,amount"`
	Currency     string         `json:"currency" binding:"required,currency"`
	Payer        string         `json:"payer" binding:"required,alphanum"`
	SplitType    string         `json:"split_type" binding:"required,oneof=equal custom"`
	Splits       []splitRequest `json:"splits" binding:"required_if=SplitType custom,dive"`
	Participants []string       `json:"participants" binding:"required_if=SplitType equal,dive,alphanum"`
}

func (r createRequest) params(groupID int32) domain.CreateExpenseParams {
	arg := domain.CreateExpenseParams{
		GroupID:     groupID,
		Description: r.Description,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Payer:       r.Payer,
		SplitType:   r.SplitType,
	}

	if r.SplitType == domain.SplitEqual {
		arg.Splits = make([]domain.Split, len(r.Participants))
		for i, p := range r.Participants {
			arg.Splits[i] = domain.Split{Participant: p}
		}

		return arg
	}

	arg.Splits = make([]domain.Split, len(r.Splits))
	for i, s := range r.Splits {
		arg.Splits[i] = domain.Split{Participant: s.Participant, Amount: s.Amount}
	}

	return arg
}

// Create handles http request to record an expense of the group.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	expense, err := h.service.Create(ctx, req.params(uri.ID))
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{expense}})
}

// respondError writes the status code matching err.
func respondError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrGroupNotFound, domain.ErrExpenseNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrNotExpenseOwner:
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case domain.ErrInvalidAmount,
		domain.ErrNonPositiveAmount,
		domain.ErrNegativeAmount,
		domain.ErrTooManyDecimals,
		domain.ErrAmountTooLarge,
		domain.ErrUnsupportedCurrency,
		domain.ErrNoParticipants,
		domain.ErrDuplicateParticipant,
		domain.ErrSplitSumMismatch,
		domain.ErrUnknownSplitType,
		domain.ErrNotGroupMember,
		domain.ErrMemberNotFound:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type expenseURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get expense.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri expenseURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	expense, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		if err == domain.ErrExpenseNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{expense}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1,max=10000"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// List handles http request to list the group expenses.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri groupdelivery.GroupURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	expenses, err := h.service.List(ctx, uri.ID, req.PageSize, req.PageID)
	if err != nil {
		if err == domain.ErrGroupNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: listData{expenses}})
}

// Update handles http request to replace the expense on behalf of its payer or the group admin.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri expenseURI
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

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	p := req.params(0)
	arg := domain.UpdateExpenseParams{
		ID:          uri.ID,
		Description: p.Description,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Payer:       p.Payer,
		SplitType:   p.SplitType,
		Splits:      p.Splits,
	}

	expense, err := h.service.Update(ctx, arg, acting.Member)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{expense}})
}

// Delete handles http request to delete expense on behalf of its payer or the group admin.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri expenseURI
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

	if err := h.service.Delete(ctx, uri.ID, acting.Member); err != nil {
		respondError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}
