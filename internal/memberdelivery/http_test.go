package memberdelivery

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
	"github.com/go-petr/pet-split/pkg/errorspkg"
	"github.com/go-petr/pet-split/pkg/web"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	member := test.RandomMember()

	type requestBody struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}

	valid := requestBody{
		Username: member.Username,
		FullName: member.FullName,
		Email:    member.Email,
	}

	arg := domain.CreateMemberParams{
		Username: member.Username,
		FullName: member.FullName,
		Email:    member.Email,
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(memberService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: valid,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).Times(1).Return(member, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InvalidUsername",
			requestBody: requestBody{
				Username: "not valid!",
				FullName: member.FullName,
				Email:    member.Email,
			},
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Username must contain only letters and digits",
		},
		{
			name: "InvalidEmail",
			requestBody: requestBody{
				Username: member.Username,
				FullName: member.FullName,
				Email:    "nope",
			},
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email must be a valid email",
		},
		{
			name:        "ErrUsernameAlreadyExists",
			requestBody: valid,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(domain.Member{}, domain.ErrUsernameAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrUsernameAlreadyExists.Error(),
		},
		{
			name:        "ErrEmailAlreadyExists",
			requestBody: valid,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(domain.Member{}, domain.ErrEmailAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrEmailAlreadyExists.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: valid,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(domain.Member{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Initialize mocks
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			memberService := NewMockService(ctrl)
			memberHandler := NewHandler(memberService)

			server := gin.New()
			server.POST("/members", memberHandler.Create)

			tc.buildStubs(memberService)

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/members", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			// Test response
			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Member domain.Member `json:"member"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got := res.Data.(*struct {
				Member domain.Member `json:"member"`
			})

			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(member, got.Member, compareCreatedAt); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	member := test.RandomMember()

	testCases := []struct {
		name           string
		username       string
		buildStubs     func(memberService *MockService)
		wantStatusCode int
	}{
		{
			name:     "OK",
			username: member.Username,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Get(gomock.Any(), gomock.Eq(member.Username)).Times(1).Return(member, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:     "NotFound",
			username: member.Username,
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Get(gomock.Any(), gomock.Eq(member.Username)).
					Times(1).
					Return(domain.Member{}, domain.ErrMemberNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:     "InvalidUsername",
			username: "a-b",
			buildStubs: func(memberService *MockService) {
				memberService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
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
			memberService := NewMockService(ctrl)
			memberHandler := NewHandler(memberService)

			server := gin.New()
			server.GET("/members/:username", memberHandler.Get)

			tc.buildStubs(memberService)

			req, err := http.NewRequest(http.MethodGet, "/members/"+tc.username, nil)
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
