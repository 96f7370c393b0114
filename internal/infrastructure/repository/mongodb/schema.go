package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// Server error code for an already existing collection.
const namespaceExists = 48

func stringSlice(values []string) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var productSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"title", "description", "code", "price", "stock", "category"},
	"properties": bson.M{
		"title":       bson.M{"bsonType": "string", "maxLength": 100},
		"description": bson.M{"bsonType": "string", "minLength": 10, "maxLength": 500},
		"code":        bson.M{"bsonType": "string"},
		"price":       bson.M{"bsonType": "double", "minimum": domain.MinProductPrice, "maximum": domain.MaxProductPrice},
		"status":      bson.M{"bsonType": "bool"},
		"stock":       bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		"category":    bson.M{"enum": stringSlice(domain.Categories)},
		"thumbnails":  bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
	},
}

var studentSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"first_name", "last_name", "age", "course", "email"},
	"properties": bson.M{
		"age":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": domain.MinStudentAge, "maximum": domain.MaxStudentAge},
		"course": bson.M{"enum": stringSlice(domain.Courses)},
		"email":  bson.M{"bsonType": "string"},
		"active": bson.M{"bsonType": "bool"},
	},
}

// EnsureSchema creates the collections with their validators and the
// unique indexes backing code and email uniqueness. It is safe to run on
// every start.
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	const op = "mongodb.EnsureSchema"

	validators := map[string]bson.M{
		productsCollection: productSchema,
		studentsCollection: studentSchema,
	}
	for name, schema := range validators {
		opts := options.CreateCollection().SetValidator(bson.M{"$jsonSchema": schema})
		err := db.CreateCollection(ctx, name, opts)
		var cmdErr mongo.CommandError
		if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists) {
			return fmt.Errorf("%s: create %s: %w", op, name, err)
		}
	}

	unique := map[string]string{
		productsCollection: domain.ProductFieldCode,
		studentsCollection: domain.StudentFieldEmail,
		usersCollection:    domain.UserFieldEmail,
	}
	for name, field := range unique {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("%s: index %s.%s: %w", op, name, field, err)
		}
	}
	return nil
}
