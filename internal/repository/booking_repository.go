package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/jmoiron/sqlx"
)

const insertBooking = `INSERT INTO bookings (user_id, trip_id, destination, dates, status, image_url, hotel,
                                             travelers, total_cost, activities, coordinates)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING *`

// BookingRepository обеспечивает доступ к данным бронирований в базе данных.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создает новый репозиторий для бронирований.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListByUser возвращает бронирования пользователя, новые первыми.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	bookings := []model.Booking{}
	err := r.db.SelectContext(ctx, &bookings, "SELECT * FROM bookings WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка бронирований: %w", err)
	}
	return bookings, nil
}

// Get возвращает бронирование пользователя по ID.
func (r *BookingRepository) Get(ctx context.Context, userID, id string) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE id=$1 AND user_id=$2", id, userID); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create создает новое бронирование.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if err := createBooking(ctx, r.db, b); err != nil {
		return fmt.Errorf("не удалось создать бронирование: %w", err)
	}
	return nil
}

// Update сохраняет изменяемые поля бронирования.
func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) error {
	query := `UPDATE bookings SET destination=$3, dates=$4, status=$5, image_url=$6, hotel=$7, travelers=$8,
	                 total_cost=$9, activities=$10, coordinates=$11, updated_at=now()
	          WHERE id=$1 AND user_id=$2 RETURNING *`
	err := r.db.QueryRowxContext(ctx, query, b.ID, b.UserID, b.Destination, b.Dates, b.Status, b.ImageURL, b.Hotel,
		b.Travelers, b.TotalCost, b.Activities, b.Coordinates).StructScan(b)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("не удалось обновить бронирование: %w", err)
	}
	return nil
}

// CreateFromTrips в одной транзакции создает подтвержденные бронирования по поездкам
// и переводит сами поездки в статус confirmed. Поездки, которые уже не в корзине
// (например, оформлены параллельным запросом), пропускаются.
func (r *BookingRepository) CreateFromTrips(ctx context.Context, trips []model.Trip) ([]model.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bookings := make([]model.Booking, 0, len(trips))
	for _, trip := range trips {
		res, err := tx.ExecContext(ctx, `UPDATE trips SET status=$1, updated_at=now()
		                                 WHERE id=$2 AND user_id=$3 AND status=$4 AND hotel IS NOT NULL`,
			model.StatusConfirmed, trip.ID, trip.UserID, model.StatusPlanning)
		if err != nil {
			return nil, fmt.Errorf("не удалось обновить статус поездки %s: %w", trip.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("не удалось обновить статус поездки %s: %w", trip.ID, err)
		}
		if n == 0 {
			continue
		}
		b := model.BookingFromTrip(trip)
		if err := createBooking(ctx, tx, &b); err != nil {
			return nil, fmt.Errorf("не удалось оформить бронирование по поездке %s: %w", trip.ID, err)
		}
		bookings = append(bookings, b)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func createBooking(ctx context.Context, q sqlx.QueryerContext, b *model.Booking) error {
	return q.QueryRowxContext(ctx, insertBooking, b.UserID, b.TripID, b.Destination, b.Dates, b.Status, b.ImageURL,
		b.Hotel, b.Travelers, b.TotalCost, b.Activities, b.Coordinates).StructScan(b)
}
