package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo for tests and the demo binary.
type FakeUserRepo struct {
	users map[string]*users.User
	lock  sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

// Seed inserts a user directly, assigning an ID when absent.
func (ur *FakeUserRepo) Seed(user *users.User) *users.User {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	ur.users[user.ID] = &copied
	return user
}

func (ur *FakeUserRepo) List(_ context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.User, 0, len(ur.users))
	for _, u := range ur.users {
		copied := *u
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (ur *FakeUserRepo) Get(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (ur *FakeUserRepo) Update(_ context.Context, id string, req users.UpdateUserRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	if req.NIK != nil {
		u.NIK = *req.NIK
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Specialization != nil {
		u.Specialization = *req.Specialization
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (ur *FakeUserRepo) Activate(ctx context.Context, id string) (*users.User, error) {
	return ur.Update(ctx, id, users.UpdateUserRequest{IsActive: utils.Ptr(true)})
}

func (ur *FakeUserRepo) Deactivate(ctx context.Context, id string) (*users.User, error) {
	return ur.Update(ctx, id, users.UpdateUserRequest{IsActive: utils.Ptr(false)})
}

func (ur *FakeUserRepo) Delete(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(ur.users, id)
	return nil
}
