package book

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const isbnIndexName = "isbn_unique"

// MongoRepo stores books as documents of a single collection, unique on isbn.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(coll *mongo.Collection) *MongoRepo {
	return &MongoRepo{coll: coll}
}

// EnsureIndexes creates the unique isbn index if it does not exist yet.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn", Value: 1}},
		Options: options.Index().SetName(isbnIndexName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", isbnIndexName, err)
	}
	return nil
}

func (r *MongoRepo) Find(ctx context.Context, q Query) ([]Book, error) {
	cur, err := r.coll.Find(ctx, filterFor(q), findOptionsFor(q))
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	books := make([]Book, 0)
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

func (r *MongoRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	var b Book
	err := r.coll.FindOne(ctx, bson.D{{Key: "isbn", Value: isbn}}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book %q: %w", isbn, err)
	}
	return b, nil
}

func (r *MongoRepo) Insert(ctx context.Context, b Book) error {
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book %q: %w", b.ISBN, err)
	}
	return nil
}

func (r *MongoRepo) Update(ctx context.Context, isbn string, c Changes) (Book, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: c.Title},
		{Key: "author", Value: c.Author},
		{Key: "year", Value: c.Year},
		{Key: "category", Value: c.Category},
		{Key: "updatedAt", Value: c.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b Book
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "isbn", Value: isbn}}, update, opts).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("update book %q: %w", isbn, err)
	}
	return b, nil
}

func (r *MongoRepo) Delete(ctx context.Context, isbn string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "isbn", Value: isbn}})
	if err != nil {
		return fmt.Errorf("delete book %q: %w", isbn, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Stats(ctx context.Context) (Stats, error) {
	cur, err := r.coll.Aggregate(ctx, statsPipeline())
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}

	var rows []struct {
		Total  int64 `bson:"total"`
		Oldest int   `bson:"oldest"`
		Newest int   `bson:"newest"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	if len(rows) == 0 || rows[0].Total == 0 {
		return Stats{}, nil
	}

	row := rows[0]
	return Stats{
		TotalBooks: row.Total,
		OldestBook: &row.Oldest,
		NewestBook: &row.Newest,
	}, nil
}
