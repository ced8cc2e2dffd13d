package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

const collectionPeople = "people"

type PersonRepository struct {
	col *mongo.Collection
}

func NewPersonRepository(db *mongo.Database) *PersonRepository {
	return &PersonRepository{col: db.Collection(collectionPeople)}
}

// Insert stores a new person document. The id is generated by the
// service layer, so no write-back is needed.
func (r *PersonRepository) Insert(ctx context.Context, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

// FindByID retrieves a person by id.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Person
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll retrieves every person document.
func (r *PersonRepository) FindAll(ctx context.Context) ([]*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var people []*domain.Person
	if err := cursor.All(ctx, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// Update replaces the stored document for p.ID.
func (r *PersonRepository) Update(ctx context.Context, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

// Delete removes a person by id.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the people collection.
func (r *PersonRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
