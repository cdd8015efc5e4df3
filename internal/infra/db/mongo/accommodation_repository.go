package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainaccommodation "staybook/internal/domain/accommodation"
)

type AccommodationRepository struct {
	col *mongo.Collection
}

func NewAccommodationRepository(db *mongo.Database) *AccommodationRepository {
	return &AccommodationRepository{col: db.Collection("accommodations")}
}

func (r *AccommodationRepository) ByID(ctx context.Context, id domainaccommodation.AccommodationID) (*domainaccommodation.Accommodation, error) {
	var doc accommodationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainaccommodation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AccommodationRepository) ExistsByID(ctx context.Context, id domainaccommodation.AccommodationID) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

type accommodationDocument struct {
	ID                string `bson:"_id"`
	HostID            string `bson:"host_id"`
	Name              string `bson:"name"`
	MaxGuestCapacity  int    `bson:"max_guest_capacity"`
	NightlyRateCents  int64  `bson:"nightly_rate_cents"`
	Currency          string `bson:"currency"`
	ApprovalStatus    string `bson:"approval_status"`
	OperationalStatus string `bson:"operational_status"`
}

func (d accommodationDocument) toAggregate() *domainaccommodation.Accommodation {
	return &domainaccommodation.Accommodation{
		ID:                domainaccommodation.AccommodationID(d.ID),
		Host:              domainaccommodation.HostID(d.HostID),
		Name:              d.Name,
		MaxGuestCapacity:  d.MaxGuestCapacity,
		NightlyRateCents:  d.NightlyRateCents,
		Currency:          d.Currency,
		ApprovalStatus:    domainaccommodation.ApprovalStatus(d.ApprovalStatus),
		OperationalStatus: domainaccommodation.OperationalStatus(d.OperationalStatus),
	}
}

var _ domainaccommodation.Repository = (*AccommodationRepository)(nil)
