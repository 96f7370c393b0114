package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = parseID("1")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestFilterDocument(t *testing.T) {
	compile := func(t *testing.T, q string, schema query.Schema) bson.D {
		t.Helper()
		plan, err := query.Compile(query.Params{Page: 1, Limit: 10, Query: q}, schema)
		require.NoError(t, err)
		return filterDocument(plan.Filter)
	}

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, bson.D{}, compile(t, "", domain.ProductQuery))
	})

	t.Run("UpperBound", func(t *testing.T) {
		assert.Equal(t,
			bson.D{{Key: "price", Value: bson.D{{Key: "$lte", Value: 50.0}}}},
			compile(t, "price:50", domain.ProductQuery))
	})

	t.Run("CaseInsensitiveRegexIsEscaped", func(t *testing.T) {
		assert.Equal(t,
			bson.D{{Key: "category", Value: primitive.Regex{Pattern: `smart\.phones`, Options: "i"}}},
			compile(t, "category:smart.phones", domain.ProductQuery))
	})

	t.Run("Bool", func(t *testing.T) {
		assert.Equal(t,
			bson.D{{Key: "status", Value: true}},
			compile(t, "status:true", domain.ProductQuery))
	})

	t.Run("FreeTextOverNames", func(t *testing.T) {
		regex := primitive.Regex{Pattern: "ana", Options: "i"}
		assert.Equal(t,
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "first_name", Value: regex}},
				bson.D{{Key: "last_name", Value: regex}},
			}}},
			compile(t, "ana", domain.StudentQuery))
	})

	t.Run("MinimumAge", func(t *testing.T) {
		assert.Equal(t,
			bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: 18.0}}}},
			compile(t, "edad:18", domain.StudentQuery))
	})

	t.Run("Conjunction", func(t *testing.T) {
		f := query.Filter{Conditions: []query.Condition{
			{Field: "a", Op: query.OpEqual, Value: "x"},
			{Field: "b", Op: query.OpEqual, Value: "y"},
		}}
		assert.Equal(t,
			bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "a", Value: "x"}},
				bson.D{{Key: "b", Value: "y"}},
			}}},
			filterDocument(f))
	})
}

func TestListPipeline(t *testing.T) {
	plan, err := query.Compile(query.Params{Page: 3, Limit: 2, Sort: "desc"}, domain.ProductQuery)
	require.NoError(t, err)

	pipeline := listPipeline(plan)
	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)

	facet := pipeline[1][0]
	require.Equal(t, "$facet", facet.Key)
	stages := facet.Value.(bson.D)[0].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}}}, stages[0])
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(4)}}, stages[1])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(2)}}, stages[2])
}

func TestSortDocumentDefaultsToInsertionOrder(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sortDocument(query.SortSpec{}))
}

func TestLineItemDocumentsRejectMalformedReference(t *testing.T) {
	_, err := lineItemDocuments([]domain.LineItem{{ProductID: "nope", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
