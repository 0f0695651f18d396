package resume

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/redmonkez12/cvbuilder/internal/database"
)

type mongoResume struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Content   `bson:",inline"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoUpdate struct {
	Content   `bson:",inline"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepository handles resume persistence on MongoDB. Each resume is one
// document with its sections embedded.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.ResumesCollection)}
}

func ownedFilter(owner, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "userId": owner.String()}
}

func (r *MongoRepository) List(ctx context.Context, owner uuid.UUID) ([]Resume, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": owner.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoResume
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode resumes: %w", err)
	}

	out := make([]Resume, 0, len(docs))
	for i := range docs {
		res, err := mapMongoResumeToModel(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *MongoRepository) Get(ctx context.Context, owner, id uuid.UUID) (*Resume, error) {
	var doc mongoResume
	if err := r.collection.FindOne(ctx, ownedFilter(owner, id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return mapMongoResumeToModel(&doc)
}

func (r *MongoRepository) Create(ctx context.Context, owner uuid.UUID, content Content) (*Resume, error) {
	now := time.Now().UTC()
	doc := &mongoResume{
		ID:        uuid.NewString(),
		UserID:    owner.String(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return mapMongoResumeToModel(doc)
}

func (r *MongoRepository) Update(ctx context.Context, owner, id uuid.UUID, content Content) (*Resume, error) {
	update := bson.M{"$set": mongoUpdate{Content: content, UpdatedAt: time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoResume
	err := r.collection.FindOneAndUpdate(ctx, ownedFilter(owner, id), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return mapMongoResumeToModel(&doc)
}

func (r *MongoRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, ownedFilter(owner, id))
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": owner.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to delete resumes: %w", err)
	}
	return result.DeletedCount, nil
}

func mapMongoResumeToModel(doc *mongoResume) (*Resume, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q: %w", doc.ID, err)
	}
	owner, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", doc.UserID, err)
	}

	res := &Resume{
		ID:        id,
		UserID:    owner,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	res.Content.Normalize()
	return res, nil
}
