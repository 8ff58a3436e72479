package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medbot-backend/internal/conversation/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// mongoUserStore appends to the conversationHistory array embedded in each users document.
// User documents are owned by whoever created them; this store only reads and pushes.
type mongoUserStore struct {
	users *mongo.Collection
}

// NewMongoUserStore creates a UserStore over the users collection of db
func NewMongoUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{
		users: db.Collection(usersCollection),
	}
}

type mongoOwner struct {
	ID    any    `bson:"_id"`
	Email string `bson:"email"`
}

func (r *mongoUserStore) FindOwner(ctx context.Context, email string) (*domain.Owner, error) {
	var doc mongoOwner
	opts := options.FindOne().SetProjection(bson.M{"_id": 1, "email": 1})
	err := r.users.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	id := fmt.Sprint(doc.ID)
	if oid, ok := doc.ID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	return &domain.Owner{ID: id, Email: doc.Email}, nil
}

func (r *mongoUserStore) AppendSummary(ctx context.Context, owner *domain.Owner, rec *domain.ConversationSummary) error {
	rec.ID = uuid.New().String()
	rec.UserID = owner.ID
	rec.CreatedAt = time.Now()

	// $push is atomic per document, so concurrent appends never drop entries
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": owner.Email},
		bson.M{"$push": bson.M{"conversationHistory": rec}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOwnerGone
	}
	return nil
}

func (r *mongoUserStore) ListSummaries(ctx context.Context, owner *domain.Owner, limit, offset int) ([]*domain.ConversationSummary, int64, error) {
	history := bson.M{"$ifNull": bson.A{"$conversationHistory", bson.A{}}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"email": owner.Email}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"total": bson.M{"$size": history},
			"items": bson.M{"$slice": bson.A{history, offset, limit}},
		}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var page struct {
		Total int64                         `bson:"total"`
		Items []*domain.ConversationSummary `bson:"items"`
	}
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, 0, err
		}
		return []*domain.ConversationSummary{}, 0, nil
	}
	if err := cursor.Decode(&page); err != nil {
		return nil, 0, err
	}

	for _, item := range page.Items {
		item.UserID = owner.ID
	}
	return page.Items, page.Total, nil
}
