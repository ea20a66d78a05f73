package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/utils"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryNameUsed = errors.New("category with this name already exists")
	ErrCategoryInUse    = errors.New("category is referenced by blogs")
	// ErrVersionConflict means another update won the race on currentVersion
	ErrVersionConflict = errors.New("category was modified concurrently")
)

// CategoryRepository owns the versioned category collections. Category and
// CategoryVersion writes happen inside one transaction so currentVersion and
// the version history can never drift apart.
type CategoryRepository struct {
	client     *mongo.Client
	categories *mongo.Collection
	versions   *mongo.Collection
	blogs      *mongo.Collection
}

func NewCategoryRepository(client *mongo.Client) *CategoryRepository {
	return &CategoryRepository{
		client:     client,
		categories: config.GetCollection(client, "categories"),
		versions:   config.GetCollection(client, "categoryVersions"),
		blogs:      config.GetCollection(client, "blogs"),
	}
}

// Create inserts a category at version 1 together with its first version row
func (r *CategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	// Name must be unique among non-deleted categories
	count, err := r.categories.CountDocuments(ctx, bson.M{"name": name, "isDeleted": false})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameUsed
	}

	now := time.Now()
	category := models.Category{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Slug:           utils.Slugify(name),
		CurrentVersion: 1,
		IsDeleted:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	version := models.CategoryVersion{
		ID:         primitive.NewObjectID(),
		CategoryID: category.ID,
		Version:    1,
		Name:       category.Name,
		Slug:       category.Slug,
		CreatedAt:  now,
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.categories.InsertOne(sc, category); err != nil {
			return nil, err
		}
		if _, err := r.versions.InsertOne(sc, version); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// Update writes the next version row and the merged category document in one
// transaction. The category update is filtered on the version the caller
// read, so two concurrent updates cannot produce duplicate or skipped
// version numbers.
func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, name string) (*models.Category, error) {
	var category models.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	// Reject a rename onto another live category's name
	if name != category.Name {
		count, err := r.categories.CountDocuments(ctx, bson.M{
			"name":      name,
			"isDeleted": false,
			"_id":       bson.M{"$ne": id},
		})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategoryNameUsed
		}
	}

	newVersion := category.CurrentVersion + 1
	slug := category.Slug
	if name != category.Name {
		slug = utils.Slugify(name)
	}

	now := time.Now()
	versionRow := models.CategoryVersion{
		ID:         primitive.NewObjectID(),
		CategoryID: category.ID,
		Version:    newVersion,
		Name:       name,
		Slug:       slug,
		CreatedAt:  now,
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.versions.InsertOne(sc, versionRow); err != nil {
			return nil, err
		}

		result, err := r.categories.UpdateOne(sc,
			bson.M{"_id": category.ID, "currentVersion": category.CurrentVersion, "isDeleted": false},
			bson.M{"$set": bson.M{
				"name":           name,
				"slug":           slug,
				"currentVersion": newVersion,
				"updatedAt":      now,
			}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			// Abort so the version row insert is rolled back
			return nil, ErrVersionConflict
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slug
	category.CurrentVersion = newVersion
	category.UpdatedAt = now
	return &category, nil
}

// SoftDelete marks a category deleted while preserving its version history.
// Categories referenced by blogs cannot be deleted.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	var category models.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := r.blogs.CountDocuments(ctx, bson.M{"categoryId": id})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	_, err = r.categories.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}},
	)
	return err
}

// Get returns a live category by id
func (r *CategoryRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List returns all live categories
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{"isDeleted": false})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Versions returns the full version history of a live category, ascending
func (r *CategoryRepository) Versions(ctx context.Context, id primitive.ObjectID) ([]models.CategoryVersion, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "version", Value: 1}})
	cursor, err := r.versions.Find(ctx, bson.M{"categoryId": id}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var versions []models.CategoryVersion
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
