package remoteuserrepo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/credentials"
	fakecredentialstore "github.com/jrsteele09/go-auth-client/credentials/repofake"
	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/users"
	remoteuserrepo "github.com/jrsteele09/go-auth-client/users/remoterepo"
)

func setupRepo(t *testing.T, handler http.HandlerFunc) *remoteuserrepo.RemoteUserRepo {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := fakecredentialstore.NewFakeCredentialStore()
	require.NoError(t, store.SaveCredential(credentials.Credential{
		AccessToken:  "token",
		RefreshToken: "refresh",
	}))
	return remoteuserrepo.New(gateway.New(server.URL, store, nil))
}

func TestListUsers(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]*users.User{
			{ID: "u1", NIK: "NIK001", Role: users.RoleAdmin},
			{ID: "u2", NIK: "NIK002", Role: users.RoleTechnician},
		})
	})

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, users.RoleAdmin, list[0].Role)
}

func TestUpdateUserSendsOnlyPopulatedFields(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/users/u1", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, map[string]any{"name": "New Name"}, payload,
			"nil fields must be omitted from the wire")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&users.User{ID: "u1", Name: "New Name", Role: users.RoleEngineer})
	})

	updated, err := repo.Update(context.Background(), "u1", users.UpdateUserRequest{
		Name: utils.Ptr("New Name"),
	})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
}

func TestUpdateUserRejectsInvalidPayloadBeforeSending(t *testing.T) {
	called := false
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := repo.Update(context.Background(), "u1", users.UpdateUserRequest{
		Role: utils.Ptr(users.Role("INTERN")),
	})
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	require.False(t, called, "invalid payloads never reach the wire")
}

func TestActivateUnwrapsEnvelope(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/u1/activate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "user activated",
			"user":    &users.User{ID: "u1", IsActive: true},
		})
	})

	user, err := repo.Activate(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, user.IsActive)
}

func TestDeactivateUnwrapsEnvelope(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/u1/deactivate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "user deactivated",
			"user":    &users.User{ID: "u1", IsActive: false},
		})
	})

	user, err := repo.Deactivate(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, user.IsActive)
}

func TestForbiddenActionSurfacesAccessDenied(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "admins only", "statusCode": 403})
	})

	err := repo.Delete(context.Background(), "u1")
	require.ErrorIs(t, err, users.ErrAccessDenied)
}

func TestServerValidationErrorPassesThroughVerbatim(t *testing.T) {
	repo := setupRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "nik already taken", "statusCode": 400})
	})

	_, err := repo.Update(context.Background(), "u1", users.UpdateUserRequest{
		NIK: utils.Ptr("NIK002"),
	})
	var httpErr *gateway.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Equal(t, "nik already taken", httpErr.Message)
}
