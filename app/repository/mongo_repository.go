package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appfolio/showcase-api/app/models"
)

const (
	accountsCollection     = "accounts"
	applicationsCollection = "applications"
)

type mongoAccountRepository struct {
	coll *mongo.Collection
}

type mongoApplicationRepository struct {
	coll *mongo.Collection
}

// NewMongoRepositories creates the document store backed repository set.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Account:     &mongoAccountRepository{coll: db.Collection(accountsCollection)},
		Application: &mongoApplicationRepository{coll: db.Collection(applicationsCollection)},
	}
}

// EnsureMongoIndexes creates the unique indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subjectId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}

	_, err = db.Collection(applicationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create application indexes: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAccountRepository) GetBySubject(ctx context.Context, subject string) (*models.Account, error) {
	if subject == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"subjectId": subject})
}

func (r *mongoAccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoAccountRepository) FindBySubjectOrUsername(ctx context.Context, subject, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"subjectId": subject},
		bson.M{"username": username},
	}})
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	account.PrepareCreate(time.Now())
	_, err := r.coll.InsertOne(ctx, account)
	return translateMongoError(err)
}

func (r *mongoAccountRepository) UpdatePlan(ctx context.Context, id string, update PlanUpdate) error {
	set := bson.M{
		"plan":            update.Plan,
		"planStatus":      update.Status,
		"planPurchasedAt": update.PurchasedAt,
		"updatedAt":       time.Now(),
	}
	if update.ValidUntil != nil {
		set["planValidUntil"] = *update.ValidUntil
	}
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translateMongoError(err)
	}
	return &account, nil
}

func (r *mongoApplicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

func (r *mongoApplicationRepository) ListPublicByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID, "visibility": bson.M{"$in": publicVisibilities}})
}

func (r *mongoApplicationRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Application, error) {
	return r.findOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
}

func (r *mongoApplicationRepository) GetPublicBySlug(ctx context.Context, ownerID, slug string) (*models.Application, error) {
	return r.findOne(ctx, bson.M{
		"ownerId":    ownerID,
		"slug":       slug,
		"visibility": bson.M{"$in": publicVisibilities},
	})
}

func (r *mongoApplicationRepository) SlugExists(ctx context.Context, ownerID, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"ownerId": ownerID, "slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	app.PrepareCreate(time.Now())
	_, err := r.coll.InsertOne(ctx, app)
	return translateMongoError(err)
}

// Save replaces the stored document with app.
func (r *mongoApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	app.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": app.ID, "ownerId": app.OwnerID}, app)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoApplicationRepository) find(ctx context.Context, filter bson.M) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *mongoApplicationRepository) findOne(ctx context.Context, filter bson.M) (*models.Application, error) {
	var app models.Application
	if err := r.coll.FindOne(ctx, filter).Decode(&app); err != nil {
		return nil, translateMongoError(err)
	}
	return &app, nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
