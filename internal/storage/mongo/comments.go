package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
	"github.com/pribylovaa/yanews/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// commentDoc — представление комментария в коллекции.
// UUID хранятся строками, чтобы документы читались в mongosh без декодеров.
type commentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	NewsID     string             `bson:"news_id"`
	AuthorID   string             `bson:"author_id"`
	AuthorName string             `bson:"author_name"`
	Text       string             `bson:"text"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d commentDoc) toModel() (models.Comment, error) {
	newsID, err := uuid.Parse(d.NewsID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad news_id %q: %w", d.NewsID, err)
	}

	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("bad author_id %q: %w", d.AuthorID, err)
	}

	return models.Comment{
		ID:         d.ID.Hex(),
		NewsID:     newsID,
		AuthorID:   authorID,
		AuthorName: d.AuthorName,
		Text:       d.Text,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

// CreateComment вставляет документ; _id генерирует драйвер.
func (m *Mongo) CreateComment(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	doc := commentDoc{
		NewsID:     comm.NewsID.String(),
		AuthorID:   comm.AuthorID.String(),
		AuthorName: comm.AuthorName,
		Text:       comm.Text,
		CreatedAt:  toMS(comm.CreatedAt),
	}

	res, err := m.comments.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	comm.ID = oid.Hex()
	comm.CreatedAt = doc.CreatedAt

	return &comm, nil
}

// CommentByID возвращает комментарий по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateCommentText меняет только поле text; news_id, author_id и created_at неизменны.
func (m *Mongo) UpdateCommentText(ctx context.Context, id, text string) error {
	const op = "storage/mongo/UpdateCommentText"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.comments.UpdateByID(ctx, oid, bson.D{
		{Key: "$set", Value: bson.D{{Key: "text", Value: text}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteComment удаляет документ безвозвратно.
func (m *Mongo) DeleteComment(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ListByNews возвращает комментарии новости: created_at ASC, _id ASC.
func (m *Mongo) ListByNews(ctx context.Context, newsID uuid.UUID) ([]models.Comment, error) {
	const op = "storage/mongo/ListByNews"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := m.comments.Find(ctx, bson.D{{Key: "news_id", Value: newsID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		c, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, c)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
