package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// userDoc is the Firestore document representation of model.User
type userDoc struct {
	ID             string    `firestore:"ID"`
	Username       string    `firestore:"Username"`
	Email          string    `firestore:"Email"`
	HashedPassword string    `firestore:"HashedPassword"`
	FullName       string    `firestore:"FullName"`
	IsActive       bool      `firestore:"IsActive"`
	TelegramChatID string    `firestore:"TelegramChatID"`
	CreatedAt      time.Time `firestore:"CreatedAt"`
	UpdatedAt      time.Time `firestore:"UpdatedAt"`
}

func toUserDoc(u *model.User) *userDoc {
	return &userDoc{
		ID:             string(u.ID),
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		FullName:       u.FullName,
		IsActive:       u.IsActive,
		TelegramChatID: string(u.TelegramChatID),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func fromUserDoc(d *userDoc) *model.User {
	return &model.User{
		ID:             types.UserID(d.ID),
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		FullName:       d.FullName,
		IsActive:       d.IsActive,
		TelegramChatID: types.ChatID(d.TelegramChatID),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type userRepository struct {
	client *firestore.Client
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) users() *firestore.CollectionRef {
	return r.client.Collection(collectionUsers)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	created := *user
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	for _, q := range []firestore.Query{
		r.users().Where("Username", "==", created.Username).Limit(1),
		r.users().Where("Email", "==", created.Email).Limit(1),
	} {
		iter := q.Documents(ctx)
		_, err := iter.Next()
		iter.Stop()
		if err == nil {
			return nil, goerr.New("user already exists",
				goerr.V("username", created.Username), goerr.V("email", created.Email))
		}
		if err != iterator.Done {
			return nil, goerr.Wrap(err, "failed to check user uniqueness")
		}
	}

	if _, err := r.users().Doc(string(created.ID)).Set(ctx, toUserDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.users().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return fromUserDoc(&d), nil
}

func (r *userRepository) getOne(ctx context.Context, q firestore.Query, errMsg string) (*model.User, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, errMsg)
	}
	if err != nil {
		return nil, goerr.Wrap(err, errMsg)
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user")
	}

	return fromUserDoc(&d), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, r.users().Where("Username", "==", username), "user not found")
}

func (r *userRepository) GetByChatID(ctx context.Context, chatID types.ChatID) (*model.User, error) {
	return r.getOne(ctx, r.users().Where("TelegramChatID", "==", string(chatID)), "user not found")
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	docRef := r.users().Doc(string(user.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", user.ID))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", user.ID))
	}

	var existing userDoc
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", user.ID))
	}

	updated := *user
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toUserDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", user.ID))
	}

	return &updated, nil
}

// LinkChat binds the chat to the user inside a transaction so the at-most-one
// user per chat invariant holds under concurrent link attempts.
func (r *userRepository) LinkChat(ctx context.Context, id types.UserID, chatID types.ChatID) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.users().Doc(string(id))
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get user", goerr.V("id", id))
		}

		iter := tx.Documents(r.users().Where("TelegramChatID", "==", string(chatID)).Limit(1))
		other, err := iter.Next()
		iter.Stop()
		if err == nil && other.Ref.ID != string(id) {
			return goerr.New("chat already linked to another user",
				goerr.V("chatID", chatID), goerr.V("userID", other.Ref.ID))
		}
		if err != nil && err != iterator.Done {
			return goerr.Wrap(err, "failed to check chat link uniqueness")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "TelegramChatID", Value: string(chatID)},
			{Path: "UpdatedAt", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *userRepository) UnlinkChat(ctx context.Context, id types.UserID) error {
	docRef := r.users().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "TelegramChatID", Value: ""},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to unlink chat", goerr.V("id", id))
	}
	return nil
}
