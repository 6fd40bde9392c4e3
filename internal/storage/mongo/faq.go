// Package mongostore keeps the support page FAQs in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"everjourney/internal/adapters/observability"
	"everjourney/internal/domain"
)

const collection = "faqs"

type faqDoc struct {
	ID        string `bson:"_id"`
	Question  string `bson:"question"`
	Answer    string `bson:"answer"`
	SortOrder int    `bson:"sort_order"`
}

// FAQs implements domain.FAQRepository.
type FAQs struct {
	coll *mongo.Collection
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func NewFAQs(client *mongo.Client, database string) *FAQs {
	return &FAQs{coll: client.Database(database).Collection(collection)}
}

func (f *FAQs) List(ctx context.Context) ([]domain.FAQ, error) {
	start := time.Now()
	cur, err := f.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		observability.ObserveDB("faqs.list", err, time.Since(start))
		return nil, fmt.Errorf("faqs: %w", err)
	}
	var docs []faqDoc
	err = cur.All(ctx, &docs)
	observability.ObserveDB("faqs.list", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("faqs decode: %w", err)
	}
	out := make([]domain.FAQ, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.FAQ{ID: d.ID, Question: d.Question, Answer: d.Answer})
	}
	return out, nil
}

// Replace swaps the collection contents for faqs, keeping their order.
func (f *FAQs) Replace(ctx context.Context, faqs []domain.FAQ) error {
	if _, err := f.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("faqs clear: %w", err)
	}
	if len(faqs) == 0 {
		return nil
	}
	docs := make([]any, 0, len(faqs))
	for i, q := range faqs {
		docs = append(docs, faqDoc{ID: q.ID, Question: q.Question, Answer: q.Answer, SortOrder: i + 1})
	}
	if _, err := f.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("faqs insert: %w", err)
	}
	return nil
}
