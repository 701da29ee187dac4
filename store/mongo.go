package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/models"
)

const (
	colActors        = "actors"
	colDonations     = "donations"
	colStats         = "actor_stats"
	colDisasters     = "disasters"
	colNotifications = "notifications"
)

// Mongo implements donation.Store on top of a MongoDB database.
// Transition runs inside a session transaction so the status flip and
// the stats credits commit as one unit; the deployment must be a
// replica set for that to hold.
type Mongo struct {
	client *mongo.Client
	dbName string
	log    *zap.Logger
}

var _ donation.Store = (*Mongo)(nil)

func NewMongo(client *mongo.Client, dbName string, log *zap.Logger) *Mongo {
	return &Mongo{client: client, dbName: dbName, log: log}
}

func (s *Mongo) col(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

func (s *Mongo) InsertActor(ctx context.Context, a *models.Actor) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := s.col(colActors).InsertOne(ctx, a)
	return err
}

func (s *Mongo) GetActor(ctx context.Context, id primitive.ObjectID) (*models.Actor, error) {
	var a models.Actor
	err := s.col(colActors).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, donation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Mongo) GetActorByEmail(ctx context.Context, email string) (*models.Actor, error) {
	var a models.Actor
	err := s.col(colActors).FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, donation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Mongo) ListActorsByRole(ctx context.Context, role string) ([]models.Actor, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	cursor, err := s.col(colActors).Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	var actors []models.Actor
	if err := cursor.All(ctx, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

func (s *Mongo) SetActorPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := s.col(colActors).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"photo_url": url, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return donation.ErrNotFound
	}
	return nil
}

func (s *Mongo) DeleteActor(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col(colActors).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return donation.ErrNotFound
	}
	return nil
}

func (s *Mongo) InsertDisaster(ctx context.Context, d *models.Disaster) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := s.col(colDisasters).InsertOne(ctx, d)
	return err
}

func (s *Mongo) ListDisasters(ctx context.Context, status string) ([]models.Disaster, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.col(colDisasters).Find(ctx, filter,
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	var disasters []models.Disaster
	if err := cursor.All(ctx, &disasters); err != nil {
		return nil, err
	}
	return disasters, nil
}

func (s *Mongo) InsertDonation(ctx context.Context, d *models.Donation) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := s.col(colDonations).InsertOne(ctx, d)
	return err
}

func (s *Mongo) GetDonation(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	err := s.col(colDonations).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, donation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Mongo) ListDonations(ctx context.Context, filter donation.ListFilter) ([]models.Donation, error) {
	query := bson.M{}
	if !filter.RestaurantID.IsZero() {
		query["restaurant_id"] = filter.RestaurantID
	}
	if !filter.NGOID.IsZero() {
		query["ngo_id"] = filter.NGOID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	cursor, err := s.col(colDonations).Find(ctx, query,
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	var donations []models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// Transition is a conditional update keyed on the expected prior
// status. The filter carries both _id and status, so of two racing
// callers exactly one matches; the loser gets a conflict, never a
// blind overwrite. The donation update and the stats credits run in
// one transaction.
func (s *Mongo) Transition(ctx context.Context, id primitive.ObjectID, from models.DonationStatus,
	update donation.TransitionUpdate, credits []donation.StatsCredit) (*models.Donation, error) {

	set := bson.M{"status": update.Status, "updated_at": time.Now()}
	if update.VerificationCode != "" {
		set["verification_code"] = update.VerificationCode
	}
	if update.CompletedAt != nil {
		set["completed_at"] = update.CompletedAt
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var d models.Donation
		err := s.col(colDonations).FindOneAndUpdate(sc,
			bson.M{"_id": id, "status": from},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&d)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the donation is gone or it left the expected state.
			count, cerr := s.col(colDonations).CountDocuments(sc, bson.M{"_id": id})
			if cerr != nil {
				return nil, cerr
			}
			if count == 0 {
				return nil, donation.ErrNotFound
			}
			s.log.Debug("conditional update lost the race",
				zap.String("donation_id", id.Hex()),
				zap.String("expected_status", string(from)))
			return nil, &donation.ConcurrencyConflictError{DonationID: id.Hex()}
		}
		if err != nil {
			return nil, err
		}

		for _, c := range credits {
			if err := s.applyCredit(sc, c); err != nil {
				return nil, err
			}
		}
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Donation), nil
}

func (s *Mongo) applyCredit(ctx context.Context, c donation.StatsCredit) error {
	_, err := s.col(colStats).UpdateOne(ctx,
		bson.M{"_id": c.ActorID},
		bson.M{
			"$inc": bson.M{
				"total_donations": c.Delta.Donations,
				"total_kg":        c.Delta.Kg,
				"total_value":     c.Delta.Value,
				"total_points":    c.Delta.Points,
			},
			"$set": bson.M{
				"actor_name":   c.ActorName,
				"role":         c.Role,
				"last_updated": time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Mongo) IncVerifyAttempts(ctx context.Context, id primitive.ObjectID) (int, error) {
	var d models.Donation
	err := s.col(colDonations).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"verify_attempts": 1}, "$set": bson.M{"updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, donation.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return d.VerifyAttempts, nil
}

func (s *Mongo) GetStats(ctx context.Context, actorID primitive.ObjectID) (*models.ActorStats, error) {
	var stats models.ActorStats
	err := s.col(colStats).FindOne(ctx, bson.M{"_id": actorID}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, donation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Mongo) TopStats(ctx context.Context, role string, limit int) ([]models.ActorStats, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	cursor, err := s.col(colStats).Find(ctx, filter,
		options.Find().SetSort(bson.M{"total_points": -1}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	var stats []models.ActorStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Mongo) InsertNotification(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	_, err := s.col(colNotifications).InsertOne(ctx, n)
	return err
}

func (s *Mongo) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	cursor, err := s.col(colNotifications).Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	var notifs []models.Notification
	if err := cursor.All(ctx, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

func (s *Mongo) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.col(colNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return donation.ErrNotFound
	}
	return nil
}
