package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col     *mongo.Collection
	details *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		col:     db.Collection("bookings"),
		details: db.Collection("booking_details"),
	}
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ByIDWithDetail(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail, err := r.detailByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Detail = detail
	return b, nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, id domainguest.GuestID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"guest_id": string(id)})
}

func (r *BookingRepository) ListByAccommodation(ctx context.Context, id domainaccommodation.AccommodationID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"accommodation_id": string(id)})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

// IsOverlapping matches any non-cancelled booking whose half-open stay
// range intersects the given one. The detail ranges are denormalized onto
// the booking document precisely so this stays one indexed query.
func (r *BookingRepository) IsOverlapping(ctx context.Context, id domainaccommodation.AccommodationID, dr domainrange.DateRange) (bool, error) {
	filter := bson.M{
		"accommodation_id": string(id),
		"state":            bson.M{"$ne": string(domainbooking.StateCancelled)},
		"check_in":         bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"check_out":        bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	err := r.col.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func (r *BookingRepository) detailByBooking(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Detail, error) {
	var doc detailDocument
	if err := r.details.FindOne(ctx, bson.M{"booking_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toDetail(), nil
}

type bookingDocument struct {
	ID               string `bson:"_id"`
	GuestID          string `bson:"guest_id"`
	AccommodationID  string `bson:"accommodation_id"`
	DetailID         string `bson:"detail_id"`
	TransactionID    string `bson:"transaction_id,omitempty"`
	State            string `bson:"state"`
	TotalAmount      int64  `bson:"total_amount"`
	Currency         string `bson:"currency"`
	PaymentConfirmed bool   `bson:"payment_confirmed"`
	CheckIn          int64  `bson:"check_in"`
	CheckOut         int64  `bson:"check_out"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
	Version          int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:               string(b.ID),
		GuestID:          string(b.GuestID),
		AccommodationID:  string(b.AccommodationID),
		DetailID:         string(b.DetailID),
		TransactionID:    b.TransactionID,
		State:            string(b.State),
		TotalAmount:      b.TotalPrice.Amount,
		Currency:         b.TotalPrice.Currency,
		PaymentConfirmed: b.PaymentConfirmed,
		CreatedAt:        b.CreatedAt.UnixMilli(),
		UpdatedAt:        b.UpdatedAt.UnixMilli(),
		Version:          b.Version,
	}
	if b.Detail != nil {
		doc.CheckIn = b.Detail.Range.CheckIn.UnixMilli()
		doc.CheckOut = b.Detail.Range.CheckOut.UnixMilli()
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:               domainbooking.BookingID(d.ID),
		GuestID:          domainguest.GuestID(d.GuestID),
		AccommodationID:  domainaccommodation.AccommodationID(d.AccommodationID),
		DetailID:         domainbooking.DetailID(d.DetailID),
		TransactionID:    d.TransactionID,
		State:            domainbooking.State(d.State),
		TotalPrice:       money.Money{Amount: d.TotalAmount, Currency: d.Currency},
		PaymentConfirmed: d.PaymentConfirmed,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
