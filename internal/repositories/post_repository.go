package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/nayeem51/friendline/internal/apperrors"
	"github.com/nayeem51/friendline/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsPage(ctx context.Context, skip, limit int64) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	GetPostsByUserIDs(ctx context.Context, userIDs []uint) ([]models.Post, error)
	SearchPosts(ctx context.Context, text string) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, text string, updatedAt time.Time) error
	DeletePost(ctx context.Context, id string) error
	DeletePostsByUserID(ctx context.Context, userID uint) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Invalid("invalid post id format: %s", id)
	}
	return objID, nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("post not found with id: %s", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAllPosts retrieves all posts, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
}

// GetPostsPage retrieves one page of posts, newest first
func (r *MongoPostRepository) GetPostsPage(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst))
}

// GetPostsByUserID retrieves all posts authored by userID, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(newestFirst))
}

// GetPostsByUserIDs retrieves all posts authored by any id in userIDs with a
// single query. This is the timeline's bulk fetch; keeping it one query
// avoids a per-friend fan-out.
func (r *MongoPostRepository) GetPostsByUserIDs(ctx context.Context, userIDs []uint) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
}

// SearchPosts retrieves all posts whose text contains the given string,
// case-insensitively
func (r *MongoPostRepository) SearchPosts(ctx context.Context, text string) ([]models.Post, error) {
	filter := bson.M{"text": primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// UpdatePost replaces the text of an existing post and bumps updated_at;
// created_at is never touched
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, text string, updatedAt time.Time) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"text": text, "updated_at": updatedAt}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("post not found with id: %s", id)
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("post not found with id: %s", id)
	}
	return nil
}

// DeletePostsByUserID deletes every post authored by userID. Used by the
// user-delete cascade.
func (r *MongoPostRepository) DeletePostsByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
