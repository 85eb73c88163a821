package repository

import (
	"context"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository обеспечивает доступ к профилям пользователей в базе данных.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create добавляет новый профиль и заполняет сгенерированные базой поля.
// Если профиль с тем же subject уже создан параллельным запросом, он обновляется и возвращается.
func (r *UserRepository) Create(ctx context.Context, p *model.UserProfile) error {
	query := `INSERT INTO user_profiles (auth0_user_id, email, name, avatar_url)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (auth0_user_id) DO UPDATE
	          SET email=EXCLUDED.email, name=EXCLUDED.name, avatar_url=EXCLUDED.avatar_url, updated_at=now()
	          RETURNING *`
	if err := r.db.QueryRowxContext(ctx, query, p.Auth0UserID, p.Email, p.Name, p.AvatarURL).StructScan(p); err != nil {
		return fmt.Errorf("не удалось создать профиль пользователя: %w", err)
	}
	return nil
}

// UpdateByAuthID обновляет email, имя и аватар профиля по subject провайдера.
func (r *UserRepository) UpdateByAuthID(ctx context.Context, p *model.UserProfile) error {
	query := `UPDATE user_profiles SET email=$2, name=$3, avatar_url=$4, updated_at=now()
	          WHERE auth0_user_id=$1 RETURNING *`
	if err := r.db.QueryRowxContext(ctx, query, p.Auth0UserID, p.Email, p.Name, p.AvatarURL).StructScan(p); err != nil {
		return fmt.Errorf("не удалось обновить профиль пользователя: %w", err)
	}
	return nil
}

// GetByAuthID ищет профиль по subject провайдера. Возвращает sql.ErrNoRows, если не найден.
func (r *UserRepository) GetByAuthID(ctx context.Context, authID string) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := r.db.GetContext(ctx, &p, "SELECT * FROM user_profiles WHERE auth0_user_id=$1", authID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Roles возвращает роли пользователя.
func (r *UserRepository) Roles(ctx context.Context, userID string) ([]string, error) {
	roles := []string{}
	if err := r.db.SelectContext(ctx, &roles, "SELECT role FROM user_roles WHERE user_id=$1", userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении ролей пользователя: %w", err)
	}
	return roles, nil
}

// GrantRole назначает роль пользователю (повторное назначение игнорируется).
func (r *UserRepository) GrantRole(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING", userID, role)
	if err != nil {
		return fmt.Errorf("не удалось назначить роль: %w", err)
	}
	return nil
}
