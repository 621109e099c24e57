package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/todoapp/todo-api/internal/core/domain"
)

type TodoRepository struct {
	col *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{col: db.Collection(collectionTodos)}
}

type todoDoc struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	Title       string     `bson:"title"`
	Description *string    `bson:"description"`
	Completed   bool       `bson:"completed"`
	DueDate     *time.Time `bson:"due_date"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func (d todoDoc) toDomain() *domain.Todo {
	t := &domain.Todo{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

func todoIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed", Value: 1}}},
	}
}

// Create inserts a new todo document.
func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	t.CreatedAt = storeTime(t.CreatedAt)
	t.UpdatedAt = storeTime(t.UpdatedAt)
	if t.DueDate != nil {
		due := storeTime(*t.DueDate)
		t.DueDate = &due
	}

	_, err := r.col.InsertOne(ctx, todoDoc{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// FindByID retrieves a todo by id, filtered by owner.
func (r *TodoRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc todoDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TodoRepository) List(ctx context.Context, q domain.TodoQuery) ([]*domain.Todo, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, todoFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	items := []*domain.Todo{}
	if total == 0 || int64(q.Offset()) >= total {
		return items, total, nil
	}

	cur, err := r.col.Aggregate(ctx, listPipeline(q))
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc todoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode todo: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	return items, total, nil
}

func (r *TodoRepository) Update(ctx context.Context, ownerID, id string, c domain.TodoChanges, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "user_id": ownerID}, updatePipeline(c, now))
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Counts(ctx context.Context, ownerID string, now time.Time) (domain.TodoCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, countsPipeline(ownerID, now))
	if err != nil {
		return domain.TodoCounts{}, fmt.Errorf("count todos: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Total     int64 `bson:"total"`
		Completed int64 `bson:"completed"`
		Overdue   int64 `bson:"overdue"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return domain.TodoCounts{}, fmt.Errorf("count todos: %w", err)
	}
	if len(out) == 0 {
		return domain.TodoCounts{}, nil
	}
	return domain.TodoCounts{Total: out[0].Total, Completed: out[0].Completed, Overdue: out[0].Overdue}, nil
}
