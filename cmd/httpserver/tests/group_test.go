//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-petr/pet-split/internal/domain"
	"github.com/go-petr/pet-split/internal/integrationtest"
	"github.com/go-petr/pet-split/internal/test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestCreateMemberAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	existing := test.SeedMember(t, server.DB)

	type requestBody struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "Created",
			requestBody:    requestBody{Username: "alice", FullName: "Alice Liddell", Email: "alice@example.com"},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "UsernameAlreadyExists",
			requestBody:    requestBody{Username: existing.Username, FullName: "Someone", Email: "other@example.com"},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrUsernameAlreadyExists.Error(),
		},
		{
			name:           "EmailAlreadyExists",
			requestBody:    requestBody{Username: "bob", FullName: "Bob", Email: existing.Email},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrEmailAlreadyExists.Error(),
		},
		{
			name:           "InvalidEmail",
			requestBody:    requestBody{Username: "carol", FullName: "Carol", Email: "carol"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email must be a valid email",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			data := &struct {
				Member domain.Member `json:"member"`
			}{}

			code, res := do(t, http.MethodPost, "/members", tc.requestBody, data)

			if code != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", code, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			want := domain.Member{
				Username:  tc.requestBody.Username,
				FullName:  tc.requestBody.FullName,
				Email:     tc.requestBody.Email,
				CreatedAt: time.Now().UTC(),
			}

			compareCreatedAt := cmpopts.EquateApproxTime(5 * time.Second)
			if diff := cmp.Diff(want, data.Member, compareCreatedAt); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupLifecycleAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	admin := test.SeedMember(t, server.DB)
	member := test.SeedMember(t, server.DB)

	type groupData struct {
		Group domain.Group `json:"group"`
	}

	type membersData struct {
		Members []string `json:"members"`
	}

	var created groupData

	code, res := do(t, http.MethodPost, "/groups", map[string]string{
		"name":        "Trip",
		"description": "Lisbon",
		"admin":       admin.Username,
	}, &created)
	require.Equal(t, http.StatusCreated, code, res.Error)
	require.Equal(t, []string{admin.Username}, created.Group.Members)

	groupURL := fmt.Sprintf("/groups/%d", created.Group.ID)

	// Adding a member twice returns the same list.
	for i := 0; i < 2; i++ {
		var members membersData

		code, res = do(t, http.MethodPost, groupURL+"/members", map[string]string{"username": member.Username}, &members)
		require.Equal(t, http.StatusOK, code, res.Error)
		require.Equal(t, []string{admin.Username, member.Username}, members.Members)
	}

	code, res = do(t, http.MethodPost, groupURL+"/members", map[string]string{"username": "nobody"}, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, domain.ErrMemberNotFound.Error(), res.Error)

	var got groupData

	code, res = do(t, http.MethodGet, groupURL, nil, &got)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Equal(t, "0.00", got.Group.TotalExpenses)
	require.Equal(t, []string{admin.Username, member.Username}, got.Group.Members)

	code, res = do(t, http.MethodPatch, groupURL+"?member="+member.Username, map[string]string{"name": "Holiday"}, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, domain.ErrNotGroupAdmin.Error(), res.Error)

	var updated groupData

	code, res = do(t, http.MethodPatch, groupURL+"?member="+admin.Username, map[string]string{"name": "Holiday"}, &updated)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Equal(t, "Holiday", updated.Group.Name)
	require.Equal(t, "Lisbon", updated.Group.Description)

	var groups struct {
		Groups []domain.Group `json:"groups"`
	}

	code, res = do(t, http.MethodGet, "/members/"+member.Username+"/groups", nil, &groups)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Len(t, groups.Groups, 1)
	require.Equal(t, created.Group.ID, groups.Groups[0].ID)
	require.Equal(t, "Holiday", groups.Groups[0].Name)

	code, res = do(t, http.MethodGet, "/members/nobody/groups", nil, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, domain.ErrMemberNotFound.Error(), res.Error)

	code, res = do(t, http.MethodDelete, groupURL+"?member="+member.Username, nil, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, domain.ErrNotGroupAdmin.Error(), res.Error)

	code, _ = do(t, http.MethodDelete, groupURL+"?member="+admin.Username, nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, res = do(t, http.MethodGet, groupURL, nil, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, domain.ErrGroupNotFound.Error(), res.Error)
}
