// Package repository implements blog post persistence on MongoDB.
//
// Posts live in the "posts" collection as documents of the form
//
//	{_id: ObjectID, created: Date, title: string, content: string}
//
// Every operation opens a connection through the database factory, so credentials
// are resolved per call, and releases it before returning. Driver errors are mapped
// onto the domain taxonomy with database.Classify.
package repository

import (
	"context"
	"errors"
	"time"

	validation "github.com/jellydator/validation"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/allisson/blog/internal/database"
	postDomain "github.com/allisson/blog/internal/post/domain"
	customValidation "github.com/allisson/blog/internal/validation"
)

// CollectionName is the collection holding posts.
const CollectionName = "posts"

// Connector opens database handles.
type Connector interface {
	Connect(ctx context.Context) (*database.Handle, error)
}

type postDocument struct {
	ID      bson.ObjectID `bson:"_id,omitempty"`
	Created time.Time     `bson:"created"`
	Title   string        `bson:"title"`
	Content string        `bson:"content"`
}

func (d postDocument) toDomain() *postDomain.Post {
	return &postDomain.Post{
		ID:      d.ID.Hex(),
		Created: d.Created.UTC(),
		Title:   d.Title,
		Content: d.Content,
	}
}

// MongoPostRepository implements post persistence for MongoDB.
type MongoPostRepository struct {
	connector Connector
	timeout   time.Duration
}

// NewMongoPostRepository creates a repository. timeout bounds each operation; zero disables it.
func NewMongoPostRepository(connector Connector, timeout time.Duration) *MongoPostRepository {
	return &MongoPostRepository{
		connector: connector,
		timeout:   timeout,
	}
}

// withCollection runs fn against the posts collection on a fresh handle.
func (r *MongoPostRepository) withCollection(
	ctx context.Context,
	fn func(ctx context.Context, coll *mongo.Collection) error,
) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	handle, err := r.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer handle.Release()

	return fn(ctx, handle.Collection(CollectionName))
}

func parseID(id string) (bson.ObjectID, error) {
	if err := validation.Validate(id, validation.Required, customValidation.ObjectIDHex); err != nil {
		return bson.ObjectID{}, postDomain.ErrInvalidPostID
	}
	return bson.ObjectIDFromHex(id)
}

// List returns every post ordered by creation time.
func (r *MongoPostRepository) List(ctx context.Context) ([]*postDomain.Post, error) {
	posts := make([]*postDomain.Post, 0)

	err := r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})
		cursor, err := coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return database.Classify(err)
		}

		var docs []postDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return database.Classify(err)
		}
		for _, doc := range docs {
			posts = append(posts, doc.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// Get returns the post with the given hex identifier.
// An identifier that is not valid hex returns ErrInvalidPostID without querying.
func (r *MongoPostRepository) Get(ctx context.Context, id string) (*postDomain.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc postDocument
	err = r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return postDomain.ErrPostNotFound
		}
		return database.Classify(err)
	})
	if err != nil {
		return nil, err
	}

	return doc.toDomain(), nil
}

// Create stores a new post and sets its ID to the server-assigned identifier.
func (r *MongoPostRepository) Create(ctx context.Context, post *postDomain.Post) error {
	doc := postDocument{
		Created: post.Created,
		Title:   post.Title,
		Content: post.Content,
	}

	return r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		result, err := coll.InsertOne(ctx, doc)
		if err != nil {
			return database.Classify(err)
		}
		if oid, ok := result.InsertedID.(bson.ObjectID); ok {
			post.ID = oid.Hex()
		}
		return nil
	})
}

// Update replaces the title and content of an existing post.
func (r *MongoPostRepository) Update(ctx context.Context, post *postDomain.Post) error {
	oid, err := parseID(post.ID)
	if err != nil {
		return err
	}

	return r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		result, err := coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "title", Value: post.Title},
				{Key: "content", Value: post.Content},
			}}},
		)
		if err != nil {
			return database.Classify(err)
		}
		if result.MatchedCount == 0 {
			return postDomain.ErrPostNotFound
		}
		return nil
	})
}

// Delete removes the post with the given identifier.
func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	return r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		result, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return database.Classify(err)
		}
		if result.DeletedCount == 0 {
			return postDomain.ErrPostNotFound
		}
		return nil
	})
}

// SeedPosts are stored when Init creates the collection.
var SeedPosts = []postDomain.Post{
	{Title: "Post 1 title", Content: "Post 1 content"},
	{Title: "Post 2 title", Content: "Post 2 content"},
}

// Init creates the posts collection when it is absent and seeds it with SeedPosts.
// An existing collection is left untouched, so Init can run on every deploy.
// It reports whether the collection was created.
func (r *MongoPostRepository) Init(ctx context.Context) (bool, error) {
	var created bool

	err := r.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		var err error
		created, err = database.EnsureCollection(ctx, coll.Database(), CollectionName)
		if err != nil || !created {
			return err
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		docs := make([]postDocument, 0, len(SeedPosts))
		for _, seed := range SeedPosts {
			docs = append(docs, postDocument{
				ID:      bson.NewObjectID(),
				Created: now,
				Title:   seed.Title,
				Content: seed.Content,
			})
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return database.Classify(err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}
