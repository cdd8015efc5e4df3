package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

// Factory opens one mongo session per unit of work. On replica sets the
// session carries a multi-document transaction, which makes the
// calendar claim and the booking write atomic together.
type Factory struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

func NewFactory(c *Client, transactions bool) *Factory {
	return &Factory{client: c.DB.Client(), db: c.DB, transactions: transactions}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	session, err := f.client.StartSession()
	if err != nil {
		return nil, err
	}
	inTx := f.transactions && !opts.ReadOnly
	if inTx {
		txOpts := options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority())
		if err := session.StartTransaction(txOpts); err != nil {
			session.EndSession(ctx)
			return nil, err
		}
	}
	return &Unit{
		session:        session,
		inTx:           inTx,
		accommodations: NewAccommodationRepository(f.db),
		guests:         NewGuestRepository(f.db),
		bookings:       NewBookingRepository(f.db),
		details:        NewDetailRepository(f.db),
		calendar:       NewCalendar(f.db),
	}, nil
}

type Unit struct {
	session        mongo.Session
	inTx           bool
	accommodations *AccommodationRepository
	guests         *GuestRepository
	bookings       *BookingRepository
	details        *DetailRepository
	calendar       *Calendar
}

// InjectContext binds the session to the context so every repository
// call below runs inside the same transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

func (u *Unit) Accommodations() domainaccommodation.Repository { return u.accommodations }

func (u *Unit) Guests() domainguest.Repository { return u.guests }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Details() domainbooking.DetailRepository { return u.details }

func (u *Unit) Calendar() domainbooking.Calendar { return u.calendar }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if !u.inTx {
		return nil
	}
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if !u.inTx {
		return nil
	}
	return u.session.AbortTransaction(ctx)
}

var _ uow.UnitOfWork = (*Unit)(nil)
var _ uow.UoWFactory = (*Factory)(nil)
