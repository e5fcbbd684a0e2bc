package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
)

func TestStateStartsLoadingAndEmpty(t *testing.T) {
	state := session.NewState()

	snap := state.Snapshot()
	require.True(t, snap.Loading)
	require.False(t, snap.Authenticated())
	require.Nil(t, snap.Identity)
	require.Nil(t, snap.Credential)
}

func TestSnapshotNeverSplitsIdentityFromCredential(t *testing.T) {
	state := session.NewState()
	user := &users.User{ID: "u1", NIK: "NIK001", Role: users.RoleManager}
	cred := credentials.Credential{AccessToken: "a", RefreshToken: "r"}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Writers flip the session while readers take snapshots; every
	// snapshot must carry the pair together or not at all.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			state.Set(user, cred)
			state.Clear()
		}
		close(stop)
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := state.Snapshot()
				if snap.Identity != nil {
					require.NotNil(t, snap.Credential)
				}
				if snap.Credential != nil {
					require.NotNil(t, snap.Identity)
				}
			}
		}()
	}
	wg.Wait()
}

func TestUpdateIdentityIsNoOpAfterClear(t *testing.T) {
	state := session.NewState()
	state.Set(&users.User{ID: "u1", Role: users.RoleEngineer}, credentials.Credential{AccessToken: "a", RefreshToken: "r"})
	state.Clear()

	// A profile fetch that completes after logout must not re-populate
	// the session.
	state.UpdateIdentity(&users.User{ID: "u1", Role: users.RoleEngineer})

	snap := state.Snapshot()
	require.False(t, snap.Authenticated())
	require.Nil(t, snap.Identity)
}

func TestUpdateIdentityReplacesProfileInPlace(t *testing.T) {
	state := session.NewState()
	state.Set(&users.User{ID: "u1", Name: "Old Name", Role: users.RoleEngineer},
		credentials.Credential{AccessToken: "a", RefreshToken: "r"})

	state.UpdateIdentity(&users.User{ID: "u1", Name: "New Name", Role: users.RoleEngineer})

	snap := state.Snapshot()
	require.True(t, snap.Authenticated())
	require.Equal(t, "New Name", snap.Identity.Name)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	state := session.NewState()
	state.Set(&users.User{ID: "u1", Name: "Jane", Role: users.RoleAdmin},
		credentials.Credential{AccessToken: "a", RefreshToken: "r"})

	snap := state.Snapshot()
	snap.Identity.Name = "mutated"
	snap.Credential.AccessToken = "mutated"

	fresh := state.Snapshot()
	require.Equal(t, "Jane", fresh.Identity.Name)
	require.Equal(t, "a", fresh.Credential.AccessToken)
}
