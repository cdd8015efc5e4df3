package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BookingView is the flattened read projection of a booking and its
// detail record.
type BookingView struct {
	ID               string    `json:"id"`
	AccommodationID  string    `json:"accommodation_id"`
	GuestID          string    `json:"guest_id"`
	DetailID         string    `json:"detail_id"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Nights           int       `json:"nights"`
	Guests           int       `json:"guests"`
	NightlyRate      MoneyDTO  `json:"nightly_rate"`
	Discount         MoneyDTO  `json:"discount"`
	Subtotal         MoneyDTO  `json:"subtotal"`
	Total            MoneyDTO  `json:"total"`
	Services         []string  `json:"services,omitempty"`
	State            string    `json:"state"`
	PaymentConfirmed bool      `json:"payment_confirmed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type BookingCollection struct {
	Items []BookingView `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

// MapBookingView flattens the aggregate. Detail may be nil when the read
// path did not load it; stay fields stay zero in that case.
func MapBookingView(b *domainbooking.Booking) BookingView {
	view := BookingView{
		ID:               string(b.ID),
		AccommodationID:  string(b.AccommodationID),
		GuestID:          string(b.GuestID),
		DetailID:         string(b.DetailID),
		TransactionID:    b.TransactionID,
		Total:            MapMoney(b.TotalPrice),
		State:            string(b.State),
		PaymentConfirmed: b.PaymentConfirmed,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if d := b.Detail; d != nil {
		view.CheckIn = d.Range.CheckIn
		view.CheckOut = d.Range.CheckOut
		view.Nights = d.Range.Nights()
		view.Guests = d.Guests
		view.NightlyRate = MapMoney(d.NightlyRate)
		view.Discount = MapMoney(d.Discount)
		view.Subtotal = MapMoney(d.Subtotal)
		view.Services = append([]string(nil), d.Services...)
	}
	return view
}
