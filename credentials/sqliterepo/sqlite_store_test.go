package sqliterepo_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/credentials/sqliterepo"
	"github.com/jrsteele09/go-auth-client/users"
)

func setupStore(t *testing.T) *sqliterepo.Store {
	t.Helper()

	store, err := sqliterepo.Open(filepath.Join(t.TempDir(), "auth.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestEmptyStoreReturnsNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.LoadCredential()
	require.ErrorIs(t, err, credentials.ErrNotFound)
	_, err = store.LoadIdentity()
	require.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveCredential(credentials.Credential{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))
	require.NoError(t, store.SaveIdentity(&users.User{
		ID:   "u1",
		NIK:  "NIK001",
		Role: users.RoleEngineer,
	}))

	cred, err := store.LoadCredential()
	require.NoError(t, err)
	require.Equal(t, "access", cred.AccessToken)
	require.Equal(t, "refresh", cred.RefreshToken)

	identity, err := store.LoadIdentity()
	require.NoError(t, err)
	require.Equal(t, "u1", identity.ID)
	require.Equal(t, users.RoleEngineer, identity.Role)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveCredential(credentials.Credential{AccessToken: "old", RefreshToken: "r"}))
	require.NoError(t, store.SaveCredential(credentials.Credential{AccessToken: "new", RefreshToken: "r"}))

	cred, err := store.LoadCredential()
	require.NoError(t, err)
	require.Equal(t, "new", cred.AccessToken)
}

func TestClearRemovesEverything(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SaveCredential(credentials.Credential{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, store.SaveIdentity(&users.User{ID: "u1"}))

	require.NoError(t, store.Clear())

	_, err := store.LoadCredential()
	require.ErrorIs(t, err, credentials.ErrNotFound)
	_, err = store.LoadIdentity()
	require.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")

	store, err := sqliterepo.Open(path, "test")
	require.NoError(t, err)
	require.NoError(t, store.SaveCredential(credentials.Credential{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, store.Close())

	reopened, err := sqliterepo.Open(path, "test")
	require.NoError(t, err)
	defer reopened.Close()

	cred, err := reopened.LoadCredential()
	require.NoError(t, err)
	require.Equal(t, "a", cred.AccessToken)
}

func TestNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")

	appA, err := sqliterepo.Open(path, "app-a")
	require.NoError(t, err)
	defer appA.Close()
	appB, err := sqliterepo.Open(path, "app-b")
	require.NoError(t, err)
	defer appB.Close()

	require.NoError(t, appA.SaveCredential(credentials.Credential{AccessToken: "a", RefreshToken: "r"}))

	_, err = appB.LoadCredential()
	require.ErrorIs(t, err, credentials.ErrNotFound)

	// Clearing one namespace leaves the other untouched.
	require.NoError(t, appB.SaveCredential(credentials.Credential{AccessToken: "b", RefreshToken: "r"}))
	require.NoError(t, appA.Clear())

	cred, err := appB.LoadCredential()
	require.NoError(t, err)
	require.Equal(t, "b", cred.AccessToken)
}
