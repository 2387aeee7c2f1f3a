package book

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// filterFor translates q into a Mongo filter document. Criteria are ANDed.
func filterFor(q Query) bson.D {
	filter := bson.D{}

	if q.Category != nil {
		filter = append(filter, bson.E{Key: "category", Value: primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(*q.Category) + "$",
			Options: "i",
		}})
	}

	if q.Author != "" {
		filter = append(filter, bson.E{Key: "author", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(q.Author),
			Options: "i",
		}})
	}

	if q.Year != nil {
		filter = append(filter, bson.E{Key: "year", Value: *q.Year})
	}

	return filter
}

// findOptionsFor translates q's ordering and pagination. Limit 0 means no limit.
func findOptionsFor(q Query) *options.FindOptions {
	opts := options.Find()

	if q.Sort != nil {
		dir := 1
		if q.Sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: string(q.Sort.Field), Value: dir}})
	}

	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	return opts
}

// statsPipeline counts books and finds the year range in a single pass.
func statsPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "oldest", Value: bson.D{{Key: "$min", Value: "$year"}}},
			{Key: "newest", Value: bson.D{{Key: "$max", Value: "$year"}}},
		}}},
	}
}
