package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// parseID converts a hex identifier into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

// filterDocument translates a compiled filter into a $match document.
func filterDocument(f query.Filter) bson.D {
	if f.Empty() {
		return bson.D{}
	}

	conds := make(bson.A, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		conds = append(conds, conditionDocument(c))
	}
	switch {
	case f.Any:
		return bson.D{{Key: "$or", Value: conds}}
	case len(conds) == 1:
		return conds[0].(bson.D)
	}
	return bson.D{{Key: "$and", Value: conds}}
}

func conditionDocument(c query.Condition) bson.D {
	var value any
	switch c.Op {
	case query.OpContains:
		value = primitive.Regex{Pattern: regexp.QuoteMeta(fmt.Sprint(c.Value)), Options: "i"}
	case query.OpGreaterOrEqual:
		value = bson.D{{Key: "$gte", Value: c.Value}}
	case query.OpLessOrEqual:
		value = bson.D{{Key: "$lte", Value: c.Value}}
	default:
		value = c.Value
	}
	return bson.D{{Key: c.Field, Value: value}}
}

// sortDocument orders by the requested field with _id as tiebreak, which
// also yields insertion order when no field is requested.
func sortDocument(s query.SortSpec) bson.D {
	if s.Field == "" {
		return bson.D{{Key: "_id", Value: 1}}
	}
	dir := 1
	if s.Descending {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: 1}}
}

// listPipeline matches, then computes the requested window and the total
// number of matches in a single round-trip.
func listPipeline(plan query.Plan) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filterDocument(plan.Filter)}},
		{{Key: "$facet", Value: bson.D{
			{Key: "items", Value: bson.A{
				bson.D{{Key: "$sort", Value: sortDocument(plan.Sort)}},
				bson.D{{Key: "$skip", Value: int64(plan.Skip)}},
				bson.D{{Key: "$limit", Value: int64(plan.Limit)}},
			}},
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}
}

type facetResult[D any] struct {
	Items []D `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// aggregatePage runs listPipeline against coll and decodes the window.
func aggregatePage[D any](ctx context.Context, coll *mongo.Collection, plan query.Plan) ([]D, int64, error) {
	cur, err := coll.Aggregate(ctx, listPipeline(plan))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var results []facetResult[D]
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	if len(results) == 0 {
		return nil, 0, nil
	}

	var total int64
	if len(results[0].Total) > 0 {
		total = results[0].Total[0].Count
	}
	return results[0].Items, total, nil
}
