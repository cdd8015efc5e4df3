package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainrange "staybook/internal/domain/shared/daterange"
)

// Calendar claims one document per accommodation-night. The _id encodes
// both, so a second booking of any night in the range fails the insert
// with a duplicate key error instead of racing a read-then-write check.
type Calendar struct {
	col *mongo.Collection
}

func NewCalendar(db *mongo.Database) *Calendar {
	return &Calendar{col: db.Collection("booking_nights")}
}

type nightDocument struct {
	ID              string `bson:"_id"`
	AccommodationID string `bson:"accommodation_id"`
	Night           int64  `bson:"night"`
	BookingID       string `bson:"booking_id"`
}

func nightID(id domainaccommodation.AccommodationID, night time.Time) string {
	return fmt.Sprintf("%s/%s", id, night.UTC().Format("2006-01-02"))
}

func (c *Calendar) Reserve(ctx context.Context, id domainaccommodation.AccommodationID, dr domainrange.DateRange, ref domainbooking.BookingID) error {
	var docs []interface{}
	dr.EachNight(func(night time.Time) {
		docs = append(docs, nightDocument{
			ID:              nightID(id, night),
			AccommodationID: string(id),
			Night:           night.UnixMilli(),
			BookingID:       string(ref),
		})
	})
	if len(docs) == 0 {
		return domainrange.ErrInvalidRange
	}
	_, err := c.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Outside a session the earlier inserts survive; sweep them
			// so a failed reservation never holds nights.
			_, _ = c.col.DeleteMany(ctx, bson.M{"booking_id": string(ref)})
			return domainbooking.ErrDateConflict
		}
		return err
	}
	return nil
}

func (c *Calendar) Release(ctx context.Context, ref domainbooking.BookingID) error {
	_, err := c.col.DeleteMany(ctx, bson.M{"booking_id": string(ref)})
	return err
}

var _ domainbooking.Calendar = (*Calendar)(nil)
