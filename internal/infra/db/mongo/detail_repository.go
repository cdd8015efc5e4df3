package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type DetailRepository struct {
	col *mongo.Collection
}

func NewDetailRepository(db *mongo.Database) *DetailRepository {
	return &DetailRepository{col: db.Collection("booking_details")}
}

func (r *DetailRepository) Save(ctx context.Context, d *domainbooking.Detail) error {
	doc := newDetailDocument(d)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *DetailRepository) ByBooking(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Detail, error) {
	var doc detailDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toDetail(), nil
}

type detailDocument struct {
	ID             string   `bson:"_id"`
	BookingID      string   `bson:"booking_id"`
	CheckIn        int64    `bson:"check_in"`
	CheckOut       int64    `bson:"check_out"`
	Guests         int      `bson:"guests"`
	NightlyAmount  int64    `bson:"nightly_amount"`
	DiscountAmount int64    `bson:"discount_amount"`
	SubtotalAmount int64    `bson:"subtotal_amount"`
	Currency       string   `bson:"currency"`
	Services       []string `bson:"services,omitempty"`
}

func newDetailDocument(d *domainbooking.Detail) detailDocument {
	return detailDocument{
		ID:             string(d.ID),
		BookingID:      string(d.BookingID),
		CheckIn:        d.Range.CheckIn.UnixMilli(),
		CheckOut:       d.Range.CheckOut.UnixMilli(),
		Guests:         d.Guests,
		NightlyAmount:  d.NightlyRate.Amount,
		DiscountAmount: d.Discount.Amount,
		SubtotalAmount: d.Subtotal.Amount,
		Currency:       d.Subtotal.Currency,
		Services:       d.Services,
	}
}

func (d detailDocument) toDetail() *domainbooking.Detail {
	return &domainbooking.Detail{
		ID:        domainbooking.DetailID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		Range: domainrange.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Guests:      d.Guests,
		NightlyRate: money.Money{Amount: d.NightlyAmount, Currency: d.Currency},
		Discount:    money.Money{Amount: d.DiscountAmount, Currency: d.Currency},
		Subtotal:    money.Money{Amount: d.SubtotalAmount, Currency: d.Currency},
		Services:    d.Services,
	}
}

var _ domainbooking.DetailRepository = (*DetailRepository)(nil)
