// Package mongostore implements account.Repository on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/accountworker/pkg/mongo"
	"github.com/dmitrymomot/accountworker/svc/account"
)

const (
	accountsCollection = "accounts"
	historyCollection  = "account_history"
)

type accountDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type historyDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	EventID   string        `bson:"event_id"`
	AccountID string        `bson:"account_id"`
	EventType string        `bson:"event_type"`
	Action    string        `bson:"action"`
	AppliedAt time.Time     `bson:"applied_at"`
}

// Store persists accounts in MongoDB.
type Store struct {
	accounts *mongo.Collection
	history  *mongo.Collection
}

var _ account.Repository = (*Store)(nil)

// New creates a store on db and ensures its indexes exist.
func New(ctx context.Context, db *mongo.Database) (*Store, error) {
	s := &Store{
		accounts: db.Collection(accountsCollection),
		history:  db.Collection(historyCollection),
	}

	_, err := s.history.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "_id", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create history indexes: %w", err)
	}
	return s, nil
}

func (s *Store) CreateAccount(ctx context.Context, a account.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = account.InitialStatus
	}

	_, err := s.accounts.InsertOne(ctx, accountDoc{
		ID:        a.ID.String(),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	})
	if mongox.IsDuplicateKeyError(err) {
		return account.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	var doc accountDoc
	err := s.accounts.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if mongox.IsNotFoundError(err) {
		return account.Account{}, account.ErrAccountNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("find account: %w", err)
	}

	return account.Account{
		ID:        id,
		Email:     doc.Email,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Status:    account.Status(doc.Status),
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	now := time.Now().UTC()
	_, err := s.accounts.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "status", Value: string(status)},
				{Key: "updated_at", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{
				{Key: "email", Value: ""},
				{Key: "first_name", Value: ""},
				{Key: "last_name", Value: ""},
				{Key: "created_at", Value: now},
			}},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert account status: %w", err)
	}
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, e account.HistoryEntry) error {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now().UTC()
	}
	_, err := s.history.InsertOne(ctx, historyDoc{
		EventID:   e.EventID.String(),
		AccountID: e.AccountID.String(),
		EventType: string(e.EventType),
		Action:    e.Action,
		AppliedAt: e.AppliedAt.UTC(),
	})
	if mongox.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (s *Store) ListHistory(ctx context.Context, id uuid.UUID) ([]account.HistoryEntry, error) {
	cursor, err := s.history.Find(ctx,
		bson.D{{Key: "account_id", Value: id.String()}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}

	var docs []historyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	out := make([]account.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		eventID, err := uuid.Parse(d.EventID)
		if err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		out = append(out, account.HistoryEntry{
			EventID:   eventID,
			AccountID: id,
			EventType: account.EventType(d.EventType),
			Action:    d.Action,
			AppliedAt: d.AppliedAt.UTC(),
		})
	}
	return out, nil
}
