package expensedelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/test"
	"github.com/go-petr/pet-split/pkg/currencypkg"
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	test.RegisterValidators(t)

	expense := domain.Expense{
		ID:          11,
		GroupID:     3,
		Description: "groceries",
		Amount:      "30.00",
		Currency:    currencypkg.EUR,
		Payer:       "alice",
		SplitType:   domain.SplitEqual,
		Splits: []domain.Split{
			{Participant: "alice", Amount: "10.00"},
			{Participant: "bob", Amount: "10.00"},
			{Participant: "carol", Amount: "10.00"},
		},
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	equalBody := gin.H{
		"description":  expense.Description,
		"amount":       "30",
		"currency":     expense.Currency,
		"payer":        expense.Payer,
		"split_type":   domain.SplitEqual,
		"participants": []string{"alice", "bob", "carol"},
	}

	customBody := gin.H{
		"description": expense.Description,
		"amount":      "30",
		"currency":    expense.Currency,
		"payer":       expense.Payer,
		"split_type":  domain.SplitCustom,
		"splits": []gin.H{
			{"participant": "alice", "amount": "20"},
			{"participant": "bob", "amount": "10"},
		},
	}

	changed := func(body gin.H, key string, value any) gin.H {
		out := gin.H{}
		for k, v := range body {
			out[k] = v
		}

		if value == nil {
			delete(out, key)
		} else {
			out[key] = value
		}

		return out
	}

	testCases := []struct {
		name           string
		url            string
		body           gin.H
		buildStubs     func(expenseService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "EqualOK",
			url:  "/groups/3/expenses",
			body: equalBody,
			buildStubs: func(expenseService *MockService) {
				arg := domain.CreateExpenseParams{
					GroupID:     3,
					Description: expense.Description,
					Amount:      "30",
					Currency:    expense.Currency,
					Payer:       expense.Payer,
					SplitType:   domain.SplitEqual,
					Splits: []domain.Split{
						{Participant: "alice"},
						{Participant: "bob"},
						{Participant: "carol"},
					},
				}
				expenseService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).Times(1).Return(expense, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "CustomOK",
			url:  "/groups/3/expenses",
			body: customBody,
			buildStubs: func(expenseService *MockService) {
				arg := domain.CreateExpenseParams{
					GroupID:     3,
					Description: expense.Description,
					Amount:      "30",
					Currency:    expense.Currency,
					Payer:       expense.Payer,
					SplitType:   domain.SplitCustom,
					Splits: []domain.Split{
						{Participant: "alice", Amount: "20"},
						{Participant: "bob", Amount: "10"},
					},
				}
				expenseService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).Times(1).Return(expense, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InvalidAmount",
			url:  "/groups/3/expenses",
			body: changed(equalBody, "amount", "12.345"),
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount must be a positive amount up to 9999999999.99 with at most 2 decimals",
		},
		{
			name: "UnsupportedCurrency",
			url:  "/groups/3/expenses",
			body: changed(equalBody, "currency", "RUB"),
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Currency is not supported",
		},
		{
			name: "UnknownSplitType",
			url:  "/groups/3/expenses",
			body: changed(equalBody, "split_type", "shares"),
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "SplitType must be one of: equal custom",
		},
		{
			name: "MissingParticipants",
			url:  "/groups/3/expenses",
			body: changed(equalBody, "participants", nil),
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Participants is required",
		},
		{
			name: "MissingSplits",
			url:  "/groups/3/expenses",
			body: changed(customBody, "splits", nil),
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Splits is required",
		},
		{
			name: "ErrSplitSumMismatch",
			url:  "/groups/3/expenses",
			body: customBody,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, domain.ErrSplitSumMismatch)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSplitSumMismatch.Error(),
		},
		{
			name: "ErrNotGroupMember",
			url:  "/groups/3/expenses",
			body: equalBody,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, domain.ErrNotGroupMember)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrNotGroupMember.Error(),
		},
		{
			name: "ErrGroupNotFound",
			url:  "/groups/3/expenses",
			body: equalBody,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, domain.ErrGroupNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrGroupNotFound.Error(),
		},
		{
			name: "InternalServerError",
			url:  "/groups/3/expenses",
			body: equalBody,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			expenseService := NewMockService(ctrl)
			expenseHandler := NewHandler(expenseService)

			server := gin.New()
			server.POST("/groups/:id/expenses", expenseHandler.Create)

			tc.buildStubs(expenseService)

			body, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, tc.url, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Expense domain.Expense `json:"expense"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got := res.Data.(*struct {
				Expense domain.Expense `json:"expense"`
			})

			if diff := cmp.Diff(expense, got.Expense); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	testCases := []struct {
		name           string
		url            string
		buildStubs     func(expenseService *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			url:  "/groups/3/expenses?page_id=2&page_size=5",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().
					List(gomock.Any(), gomock.Eq(int32(3)), gomock.Eq(int32(5)), gomock.Eq(int32(2))).
					Times(1).
					Return([]domain.Expense{}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "PageSizeTooLarge",
			url:  "/groups/3/expenses?page_id=1&page_size=101",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "PageIDTooLarge",
			url:  "/groups/3/expenses?page_id=10001&page_size=5",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "PageIDOverflow",
			url:  "/groups/3/expenses?page_id=2147483648&page_size=5",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "GroupNotFound",
			url:  "/groups/3/expenses?page_id=1&page_size=5",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrGroupNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			expenseService := NewMockService(ctrl)
			expenseHandler := NewHandler(expenseService)

			server := gin.New()
			server.GET("/groups/:id/expenses", expenseHandler.List)

			tc.buildStubs(expenseService)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}
		})
	}
}

func TestGetAndDelete(t *testing.T) {
	test.RegisterValidators(t)

	testCases := []struct {
		name           string
		method         string
		url            string
		buildStubs     func(expenseService *MockService)
		wantStatusCode int
	}{
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			url:    "/expenses/8",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Get(gomock.Any(), gomock.Eq(int64(8))).
					Times(1).
					Return(domain.Expense{}, domain.ErrExpenseNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "DeleteOK",
			method: http.MethodDelete,
			url:    "/expenses/8?member=alice",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Delete(gomock.Any(), gomock.Eq(int64(8)), gomock.Eq("alice")).Times(1).Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:   "DeleteNotFound",
			method: http.MethodDelete,
			url:    "/expenses/8?member=alice",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Delete(gomock.Any(), gomock.Eq(int64(8)), gomock.Eq("alice")).
					Times(1).
					Return(domain.ErrExpenseNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "DeleteNotOwner",
			method: http.MethodDelete,
			url:    "/expenses/8?member=bob",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Delete(gomock.Any(), gomock.Eq(int64(8)), gomock.Eq("bob")).
					Times(1).
					Return(domain.ErrNotExpenseOwner)
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:   "DeleteWithoutMember",
			method: http.MethodDelete,
			url:    "/expenses/8",
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			expenseService := NewMockService(ctrl)
			expenseHandler := NewHandler(expenseService)

			server := gin.New()
			server.GET("/expenses/:id", expenseHandler.Get)
			server.DELETE("/expenses/:id", expenseHandler.Delete)

			tc.buildStubs(expenseService)

			req, err := http.NewRequest(tc.method, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	test.RegisterValidators(t)

	expense := domain.Expense{
		ID:          8,
		GroupID:     3,
		Description: "taxi",
		Amount:      "40.00",
		Currency:    currencypkg.EUR,
		Payer:       "alice",
		SplitType:   domain.SplitCustom,
		Splits: []domain.Split{
			{Participant: "alice", Amount: "25.00"},
			{Participant: "bob", Amount: "15.00"},
		},
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	body := gin.H{
		"description": expense.Description,
		"amount":      "40",
		"currency":    expense.Currency,
		"payer":       expense.Payer,
		"split_type":  domain.SplitCustom,
		"splits": []gin.H{
			{"participant": "alice", "amount": "25"},
			{"participant": "bob", "amount": "15"},
		},
	}

	arg := domain.UpdateExpenseParams{
		ID:          8,
		Description: expense.Description,
		Amount:      "40",
		Currency:    expense.Currency,
		Payer:       expense.Payer,
		SplitType:   domain.SplitCustom,
		Splits: []domain.Split{
			{Participant: "alice", Amount: "25"},
			{Participant: "bob", Amount: "15"},
		},
	}

	tooLarge := gin.H{}
	for k, v := range body {
		tooLarge[k] = v
	}
	tooLarge["amount"] = "10000000000"

	testCases := []struct {
		name           string
		url            string
		body           gin.H
		buildStubs     func(expenseService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			url:  "/expenses/8?member=alice",
			body: body,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Eq(arg), gomock.Eq("alice")).
					Times(1).
					Return(expense, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "WithoutMember",
			url:  "/expenses/8",
			body: body,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Member is required",
		},
		{
			name: "AmountTooLarge",
			url:  "/expenses/8?member=alice",
			body: tooLarge,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount must be a positive amount up to 9999999999.99 with at most 2 decimals",
		},
		{
			name: "ErrNotExpenseOwner",
			url:  "/expenses/8?member=bob",
			body: body,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Eq(arg), gomock.Eq("bob")).
					Times(1).
					Return(domain.Expense{}, domain.ErrNotExpenseOwner)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrNotExpenseOwner.Error(),
		},
		{
			name: "ErrSplitSumMismatch",
			url:  "/expenses/8?member=alice",
			body: body,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, domain.ErrSplitSumMismatch)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSplitSumMismatch.Error(),
		},
		{
			name: "ErrExpenseNotFound",
			url:  "/expenses/8?member=alice",
			body: body,
			buildStubs: func(expenseService *MockService) {
				expenseService.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Expense{}, domain.ErrExpenseNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrExpenseNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			expenseService := NewMockService(ctrl)
			expenseHandler := NewHandler(expenseService)

			server := gin.New()
			server.PUT("/expenses/:id", expenseHandler.Update)

			tc.buildStubs(expenseService)

			b, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPut, tc.url, bytes.NewReader(b))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &data{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(expense, res.Data.(*data).Expense); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
