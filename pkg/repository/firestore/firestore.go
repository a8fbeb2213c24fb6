package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
)

// ErrNotFound is what every missing-record lookup wraps
var ErrNotFound = model.ErrNotFound

const (
	collectionUsers       = "users"
	collectionBoards      = "boards"
	collectionMembers     = "board_members"
	collectionColumns     = "columns"
	collectionTasks       = "tasks"
	collectionComments    = "comments"
	collectionAttachments = "attachments"
	collectionAuthTokens  = "auth_tokens"
)

type Firestore struct {
	client     *firestore.Client
	user       *userRepository
	board      *boardRepository
	column     *columnRepository
	task       *taskRepository
	comment    *commentRepository
	attachment *attachmentRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:     client,
		user:       newUserRepository(client),
		board:      newBoardRepository(client),
		column:     newColumnRepository(client),
		task:       newTaskRepository(client),
		comment:    newCommentRepository(client),
		attachment: newAttachmentRepository(client),
	}, nil
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Board() interfaces.BoardRepository {
	return f.board
}

func (f *Firestore) Column() interfaces.ColumnRepository {
	return f.column
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Attachment() interfaces.AttachmentRepository {
	return f.attachment
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
