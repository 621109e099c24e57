package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/todoapp/todo-api/internal/core/domain"
)

var sortFields = map[domain.TodoSortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByDueDate:   "due_date",
	domain.SortByTitle:     "title",
}

// todoFilter translates the owner, status and search parts of a query.
func todoFilter(q domain.TodoQuery) bson.D {
	filter := bson.D{{Key: "user_id", Value: q.OwnerID}}

	switch q.Status {
	case domain.StatusCompleted:
		filter = append(filter, bson.E{Key: "completed", Value: true})
	case domain.StatusPending:
		filter = append(filter, bson.E{Key: "completed", Value: false})
	}

	if q.Search != "" {
		filter = append(filter, bson.E{Key: "title", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(q.Search)},
			{Key: "$options", Value: "i"},
		}})
	}
	return filter
}

// listPipeline renders a page of q as an aggregation. Todos without a due
// date sort after dated ones in either direction; _id breaks ties.
func listPipeline(q domain.TodoQuery) mongo.Pipeline {
	field, ok := sortFields[q.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if q.Order == domain.OrderAsc {
		dir = 1
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: todoFilter(q)}}}

	sort := bson.D{}
	if field == "due_date" {
		pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "_no_due", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$due_date", nil}}}, nil}}},
				1,
				0,
			}}}},
		}}})
		sort = append(sort, bson.E{Key: "_no_due", Value: 1})
	}
	sort = append(sort, bson.E{Key: field, Value: dir}, bson.E{Key: "_id", Value: dir})

	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: sort}},
		bson.D{{Key: "$skip", Value: int64(q.Offset())}},
		bson.D{{Key: "$limit", Value: int64(q.PerPage)}},
	)
	if field == "due_date" {
		pipeline = append(pipeline, bson.D{{Key: "$unset", Value: "_no_due"}})
	}
	return pipeline
}

// updatePipeline writes the supplied fields and advances updated_at to
// max(now, previous + 1ms). Values are wrapped in $literal so a title that
// starts with "$" is never read as a field path.
func updatePipeline(c domain.TodoChanges, now time.Time) mongo.Pipeline {
	set := bson.D{}
	if c.Title != nil {
		set = append(set, bson.E{Key: "title", Value: literal(*c.Title)})
	}
	if c.Description != nil {
		set = append(set, bson.E{Key: "description", Value: literal(*c.Description)})
	}
	if c.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: literal(*c.Completed)})
	}
	if c.DueDate != nil {
		set = append(set, bson.E{Key: "due_date", Value: literal(storeTime(*c.DueDate))})
	}
	set = append(set, bson.E{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{
		literal(storeTime(now)),
		bson.D{{Key: "$add", Value: bson.A{"$updated_at", 1}}},
	}}}})

	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

// countsPipeline aggregates total, completed and overdue for one owner.
func countsPipeline(ownerID string, now time.Time) mongo.Pipeline {
	overdue := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$completed", false}}},
		bson.D{{Key: "$ne", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$due_date", nil}}}, nil}}},
		bson.D{{Key: "$lt", Value: bson.A{"$due_date", now.UTC()}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: ownerID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "completed", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$completed", 1, 0}}}}}},
			{Key: "overdue", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{overdue, 1, 0}}}}}},
		}}},
	}
}

func literal(v any) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}
