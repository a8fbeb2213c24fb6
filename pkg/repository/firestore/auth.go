package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model/auth"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// tokenDoc is the Firestore document representation of auth.Token
type tokenDoc struct {
	ID        string    `firestore:"ID"`
	Secret    string    `firestore:"Secret"`
	UserID    string    `firestore:"UserID"`
	ExpiresAt time.Time `firestore:"ExpiresAt"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

func toTokenDoc(t *auth.Token) *tokenDoc {
	return &tokenDoc{
		ID:        string(t.ID),
		Secret:    string(t.Secret),
		UserID:    string(t.UserID),
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func fromTokenDoc(d *tokenDoc) *auth.Token {
	return &auth.Token{
		ID:        auth.TokenID(d.ID),
		Secret:    auth.TokenSecret(d.Secret),
		UserID:    types.UserID(d.UserID),
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	docRef := f.client.Collection(collectionAuthTokens).Doc(string(token.ID))
	if _, err := docRef.Set(ctx, toTokenDoc(token)); err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("tokenID", token.ID))
	}
	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	doc, err := f.client.Collection(collectionAuthTokens).Doc(string(tokenID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "token not found", goerr.V("tokenID", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token", goerr.V("tokenID", tokenID))
	}

	var d tokenDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token", goerr.V("tokenID", tokenID))
	}

	return fromTokenDoc(&d), nil
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	docRef := f.client.Collection(collectionAuthTokens).Doc(string(tokenID))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "token not found", goerr.V("tokenID", tokenID))
		}
		return goerr.Wrap(err, "failed to get token", goerr.V("tokenID", tokenID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("tokenID", tokenID))
	}
	return nil
}
