package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhammadFattan/task-management/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTaskStore struct {
	collection *mongo.Collection
}

func NewMongoTaskStore(collection *mongo.Collection) *MongoTaskStore {
	return &MongoTaskStore{collection: collection}
}

// EnsureIndexes creates the indexes the list and dashboard queries rely on.
func (s *MongoTaskStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	return nil
}

func (s *MongoTaskStore) Insert(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *MongoTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task %s: %w", id.Hex(), err)
	}
	return &task, nil
}

func (s *MongoTaskStore) Find(ctx context.Context, filter TaskFilter, opts FindOptions) ([]models.Task, error) {
	findOpts := options.Find()
	if opts.NewestFirst {
		findOpts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if len(opts.Fields) > 0 {
		projection := bson.D{}
		for _, field := range opts.Fields {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
		findOpts.SetProjection(projection)
	}

	cursor, err := s.collection.Find(ctx, filter.toBSON(), findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *MongoTaskStore) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, filter.toBSON())
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (s *MongoTaskStore) GroupCount(ctx context.Context, filter TaskFilter, field GroupField) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.toBSON()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + string(field)},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode %s groups: %w", field, err)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.Value] += g.Count
	}
	return counts, nil
}

func (s *MongoTaskStore) Replace(ctx context.Context, task *models.Task) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
