package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventrsvp/internal/domain"
)

// CollectionName is the single collection holding event documents.
const CollectionName = "events"

// eventDocument is the stored shape of an event.
type eventDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         *string            `bson:"name"`
	Description  *string            `bson:"description"`
	Date         storedDate         `bson:"date"`
	Location     *string            `bson:"location"`
	HeadCount    int                `bson:"headCount"`
	Participants []string           `bson:"participants"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty"`
}

func (d *eventDocument) toDomain() *domain.Event {
	participants := d.Participants
	if participants == nil {
		participants = []string{}
	}
	return &domain.Event{
		ID:           d.ID.Hex(),
		Name:         deref(d.Name),
		Description:  deref(d.Description),
		Date:         string(d.Date),
		Location:     deref(d.Location),
		HeadCount:    d.HeadCount,
		Participants: participants,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// storedDate decodes the date field whether it was written as a calendar
// string or as a BSON datetime, normalizing both to domain.DateLayout.
// It encodes as a plain string.
type storedDate string

func (d *storedDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*d = storedDate(raw.StringValue())
	case bsontype.DateTime:
		*d = storedDate(raw.Time().UTC().Format(domain.DateLayout))
	case bsontype.Null, bsontype.Undefined:
		*d = ""
	default:
		return fmt.Errorf("unsupported date type %s", t)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// requiredFieldsFilter excludes documents missing a descriptive field.
var requiredFieldsFilter = bson.M{
	"name":        bson.M{"$ne": nil},
	"description": bson.M{"$ne": nil},
	"date":        bson.M{"$ne": nil},
	"location":    bson.M{"$ne": nil},
}

type eventRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewEventRepository returns an EventRepository over db's events collection.
// client may be nil when the caller owns the connection lifecycle.
func NewEventRepository(client *mongo.Client, db *mongo.Database, logger *slog.Logger) domain.EventRepository {
	return &eventRepository{
		client: client,
		coll:   db.Collection(CollectionName),
		logger: logger,
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	doc := eventDocument{
		Name:         &e.Name,
		Description:  &e.Description,
		Date:         storedDate(e.Date),
		Location:     &e.Location,
		HeadCount:    e.HeadCount,
		Participants: participants,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert event: unexpected id type %T", res.InsertedID)
	}
	e.ID = oid.Hex()
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns events that have every descriptive field set, ordered by date.
// Documents that fail to decode are skipped and logged.
func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.coll.Find(ctx, requiredFieldsFilter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]*domain.Event, 0)
	for cur.Next(ctx) {
		var doc eventDocument
		if err := cur.Decode(&doc); err != nil {
			r.logger.WarnContext(ctx, "skipping malformed event document", "err", err)
			continue
		}
		events = append(events, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list events cursor: %w", err)
	}
	return events, nil
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id string, d domain.EventDetails) (*domain.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"name":        d.Name,
		"description": d.Description,
		"date":        d.Date,
		"location":    d.Location,
		"updatedAt":   time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update, domain.ErrNotFound)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddParticipant matches only when email is absent, so the set add and the
// increment happen together in one document update or not at all.
func (r *eventRepository) AddParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":          oid,
		"participants": bson.M{"$ne": email},
	}
	update := bson.M{
		"$addToSet": bson.M{"participants": email},
		"$inc":      bson.M{"headCount": 1},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrAlreadyRegistered)
}

// RemoveParticipant matches only when email is present.
func (r *eventRepository) RemoveParticipant(ctx context.Context, id, email string) (*domain.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":          oid,
		"participants": email,
	}
	update := bson.M{
		"$pull": bson.M{"participants": email},
		"$inc":  bson.M{"headCount": -1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrNotRegistered)
}

// findOneAndUpdate applies update and returns the new document. When the filter
// matches nothing it probes for the event to tell ErrNotFound from missErr.
func (r *eventRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, missErr error) (*domain.Event, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if missErr == domain.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	probe := r.coll.FindOne(ctx, bson.M{"_id": filter["_id"]}, options.FindOne().SetProjection(bson.M{"_id": 1}))
	if err := probe.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("check event exists: %w", err)
	}
	return nil, missErr
}

func (r *eventRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
