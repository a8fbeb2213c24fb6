package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	return &copied
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyUser(user)
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	for _, existing := range r.users {
		if existing.Username == created.Username {
			return nil, goerr.New("username already taken", goerr.V("username", created.Username))
		}
		if existing.Email == created.Email {
			return nil, goerr.New("email already registered", goerr.V("email", created.Email))
		}
	}

	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	return copyUser(user), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("username", username))
}

func (r *userRepository) GetByChatID(ctx context.Context, chatID types.ChatID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.TelegramChatID == chatID {
			return copyUser(user), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("chatID", chatID))
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[user.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", user.ID))
	}

	updated := copyUser(user)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.users[updated.ID] = updated
	return copyUser(updated), nil
}

func (r *userRepository) LinkChat(ctx context.Context, id types.UserID, chatID types.ChatID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	for _, other := range r.users {
		if other.ID != id && other.TelegramChatID == chatID {
			return goerr.New("chat already linked to another user",
				goerr.V("chatID", chatID), goerr.V("userID", other.ID))
		}
	}

	user.TelegramChatID = chatID
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) UnlinkChat(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	user.TelegramChatID = ""
	user.UpdatedAt = time.Now().UTC()
	return nil
}
