package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/pkg/metrics"
)

type CatRepository struct {
	col *mongo.Collection
}

func NewCatRepository(db *mongo.Database) *CatRepository {
	return &CatRepository{col: db.Collection(collectionCats)}
}

type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// catDocument is the stored shape. owner is a reference into users.
type catDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"cat_name"`
	Weight    float64            `bson:"weight"`
	Filename  string             `bson:"filename"`
	Birthdate time.Time          `bson:"birthdate"`
	Location  geoPoint           `bson:"location"`
	Owner     primitive.ObjectID `bson:"owner"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// catView is the read shape produced by catPipeline: the seven public fields
// with the owner populated from users.
type catView struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"cat_name"`
	Weight    float64            `bson:"weight"`
	Filename  string             `bson:"filename"`
	Birthdate time.Time          `bson:"birthdate"`
	Location  geoPoint           `bson:"location"`
	Owner     struct {
		ID       primitive.ObjectID `bson:"_id"`
		UserName string             `bson:"user_name"`
		Email    string             `bson:"email"`
	} `bson:"owner"`
}

func toGeoPoint(p domain.Point) geoPoint {
	return geoPoint{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}}
}

func (v catView) toDomain() domain.Cat {
	var loc domain.Point
	if len(v.Location.Coordinates) == 2 {
		loc = domain.Point{Lon: v.Location.Coordinates[0], Lat: v.Location.Coordinates[1]}
	}
	return domain.Cat{
		ID:        v.ID.Hex(),
		Name:      v.Name,
		Weight:    v.Weight,
		Filename:  v.Filename,
		Birthdate: v.Birthdate.UTC(),
		Location:  loc,
		Owner: domain.Owner{
			ID:       v.Owner.ID.Hex(),
			UserName: v.Owner.UserName,
			Email:    v.Owner.Email,
		},
	}
}

// catPipeline filters cats by match, joins the owner and projects away
// internal fields.
func catPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner_doc"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "cat_name", Value: 1},
			{Key: "weight", Value: 1},
			{Key: "filename", Value: 1},
			{Key: "birthdate", Value: 1},
			{Key: "location", Value: 1},
			{Key: "owner", Value: bson.D{
				{Key: "_id", Value: "$owner"},
				{Key: "user_name", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner_doc.user_name", 0}}}},
				{Key: "email", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner_doc.email", 0}}}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *CatRepository) aggregate(ctx context.Context, match bson.M) ([]domain.Cat, error) {
	cur, err := r.col.Aggregate(ctx, catPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var views []catView
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}

	cats := make([]domain.Cat, 0, len(views))
	for _, v := range views {
		cats = append(cats, v.toDomain())
	}
	return cats, nil
}

// Create inserts a new cat document and returns it with the owner populated.
func (r *CatRepository) Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "create", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, ok := objectID(cat.Owner.ID)
	if !ok {
		return nil, fmt.Errorf("insert cat: invalid owner id %q", cat.Owner.ID)
	}

	now := time.Now().UTC()
	doc := catDocument{
		Name:      cat.Name,
		Weight:    cat.Weight,
		Filename:  cat.Filename,
		Birthdate: cat.Birthdate,
		Location:  toGeoPoint(cat.Location),
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert cat: %w", err)
	}

	created := *cat
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *CatRepository) FindAll(ctx context.Context) ([]domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "find_all", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.aggregate(ctx, bson.M{})
}

func (r *CatRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "find_by_owner", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, ok := objectID(ownerID)
	if !ok {
		return []domain.Cat{}, nil
	}
	return r.aggregate(ctx, bson.M{"owner": owner})
}

// FindWithin runs a planar $box query over the [lon, lat] pair. $box
// includes points on the boundary, so a cat at (0,0) is inside the box
// [0,0]..[10,10]. Covered by TestCatRepository_FindWithin_Boundary
// (integration build tag).
func (r *CatRepository) FindWithin(ctx context.Context, box domain.BoundingBox) ([]domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "find_within", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.aggregate(ctx, bson.M{
		"location.coordinates": bson.M{
			"$geoWithin": bson.M{
				"$box": bson.A{
					bson.A{box.MinLon, box.MinLat},
					bson.A{box.MaxLon, box.MaxLat},
				},
			},
		},
	})
}

// FindByID retrieves a cat by id.
func (r *CatRepository) FindByID(ctx context.Context, id string) (*domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "find_by_id", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	cats, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("find cat: %w", err)
	}
	if len(cats) == 0 {
		return nil, domain.ErrCatNotFound
	}
	return &cats[0], nil
}

// Update sets the patched fields and reads the cat back.
func (r *CatRepository) Update(ctx context.Context, id string, patch domain.CatPatch) (*domain.Cat, error) {
	defer metrics.ObserveStore(collectionCats, "update", time.Now())
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCatNotFound
	}

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "cat_name", Value: *patch.Name})
	}
	if patch.Weight != nil {
		set = append(set, bson.E{Key: "weight", Value: *patch.Weight})
	}
	if patch.Birthdate != nil {
		set = append(set, bson.E{Key: "birthdate", Value: patch.Birthdate.UTC()})
	}
	if patch.Location != nil {
		set = append(set, bson.E{Key: "location", Value: toGeoPoint(*patch.Location)})
	}
	if patch.OwnerID != nil {
		owner, ok := objectID(*patch.OwnerID)
		if !ok {
			return nil, fmt.Errorf("update cat: invalid owner id %q", *patch.OwnerID)
		}
		set = append(set, bson.E{Key: "owner", Value: owner})
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	res, err := r.col.UpdateByID(updateCtx, oid, bson.D{{Key: "$set", Value: set}})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("update cat: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCatNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *CatRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveStore(collectionCats, "delete", time.Now())
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, ok := objectID(id)
	if !ok {
		return domain.ErrCatNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete cat: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCatNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the cats collection.
func (r *CatRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
