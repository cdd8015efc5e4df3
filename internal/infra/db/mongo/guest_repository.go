package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainguest "staybook/internal/domain/guest"
)

type GuestRepository struct {
	col *mongo.Collection
}

func NewGuestRepository(db *mongo.Database) *GuestRepository {
	return &GuestRepository{col: db.Collection("guests")}
}

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.GuestID) (*domainguest.Guest, error) {
	var doc guestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainguest.ErrNotFound
		}
		return nil, err
	}
	return &domainguest.Guest{
		ID:    domainguest.GuestID(doc.ID),
		Name:  doc.Name,
		Email: doc.Email,
	}, nil
}

func (r *GuestRepository) ExistsByID(ctx context.Context, id domainguest.GuestID) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

type guestDocument struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

var _ domainguest.Repository = (*GuestRepository)(nil)
