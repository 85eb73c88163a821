package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/jmoiron/sqlx"
)

// TripRepository обеспечивает доступ к данным поездок в базе данных.
// Все выборки ограничены владельцем (user_id).
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository создает новый репозиторий для поездок.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// ListByUser возвращает поездки пользователя, новые первыми.
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.SelectContext(ctx, &trips, "SELECT * FROM trips WHERE user_id=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка поездок: %w", err)
	}
	return trips, nil
}

// ListCart возвращает элементы корзины (поездки в статусе planning с указанным жильем) в порядке добавления.
func (r *TripRepository) ListCart(ctx context.Context, userID string) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.SelectContext(ctx, &trips,
		`SELECT * FROM trips
		 WHERE user_id=$1 AND status=$2 AND hotel IS NOT NULL AND hotel <> ''
		 ORDER BY added_date`, userID, model.StatusPlanning)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении корзины: %w", err)
	}
	return trips, nil
}

// Get возвращает поездку пользователя по ID. Возвращает sql.ErrNoRows, если не найдена.
func (r *TripRepository) Get(ctx context.Context, userID, id string) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.GetContext(ctx, &trip, "SELECT * FROM trips WHERE id=$1 AND user_id=$2", id, userID); err != nil {
		return nil, err
	}
	return &trip, nil
}

// Create создает новую поездку и заполняет сгенерированные базой поля.
func (r *TripRepository) Create(ctx context.Context, t *model.Trip) error {
	query := `INSERT INTO trips (user_id, destination, dates, status, image_url, hotel, travelers,
	                             estimated_cost, total_cost, activities, coordinates)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING *`
	err := r.db.QueryRowxContext(ctx, query, t.UserID, t.Destination, t.Dates, t.Status, t.ImageURL, t.Hotel,
		t.Travelers, t.EstimatedCost, t.TotalCost, t.Activities, t.Coordinates).StructScan(t)
	if err != nil {
		return fmt.Errorf("не удалось создать поездку: %w", err)
	}
	return nil
}

// Update сохраняет изменяемые поля поездки. Возвращает sql.ErrNoRows, если поездка не принадлежит пользователю.
func (r *TripRepository) Update(ctx context.Context, t *model.Trip) error {
	query := `UPDATE trips SET destination=$3, dates=$4, status=$5, image_url=$6, hotel=$7, travelers=$8,
	                 estimated_cost=$9, total_cost=$10, activities=$11, coordinates=$12, updated_at=now()
	          WHERE id=$1 AND user_id=$2 RETURNING *`
	err := r.db.QueryRowxContext(ctx, query, t.ID, t.UserID, t.Destination, t.Dates, t.Status, t.ImageURL, t.Hotel,
		t.Travelers, t.EstimatedCost, t.TotalCost, t.Activities, t.Coordinates).StructScan(t)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("не удалось обновить поездку: %w", err)
	}
	return nil
}

// Delete удаляет поездку пользователя. Возвращает sql.ErrNoRows, если удалять нечего.
func (r *TripRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM trips WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return fmt.Errorf("не удалось удалить поездку: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
