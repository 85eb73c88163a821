package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"go.uber.org/zap"
)

const defaultUserName = "User"

// AuthService связывает учетную запись провайдера идентификации с профилем пользователя.
type AuthService struct {
	users UserStore
	log   *zap.Logger
}

// NewAuthService создает новый сервис аутентификации.
func NewAuthService(users UserStore, log *zap.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// SyncProfile находит профиль по subject и обновляет его данными провайдера, либо регистрирует новый.
// Если обновление не удалось, возвращается существующий профиль.
func (s *AuthService) SyncProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error) {
	if id.Subject == "" {
		return nil, fmt.Errorf("%w: пустой subject", ErrInvalidInput)
	}
	fresh := profileFromIdentity(id)

	existing, err := s.users.GetByAuthID(ctx, id.Subject)
	if errors.Is(err, sql.ErrNoRows) {
		// Пользователь не зарегистрирован - создаем новую запись
		if err := s.users.Create(ctx, fresh); err != nil {
			// профиль мог создать параллельный запрос того же пользователя
			if raced, getErr := s.users.GetByAuthID(ctx, id.Subject); getErr == nil {
				s.log.Debug("профиль создан параллельным запросом", zap.String("subject", id.Subject), zap.Error(err))
				return raced, nil
			}
			return nil, err
		}
		s.log.Info("зарегистрирован новый пользователь", zap.String("subject", id.Subject), zap.String("user_id", fresh.ID))
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	if err := s.users.UpdateByAuthID(ctx, fresh); err != nil {
		s.log.Warn("не удалось обновить профиль", zap.String("subject", id.Subject), zap.Error(err))
		return existing, nil
	}
	return fresh, nil
}

// Profile возвращает профиль по subject провайдера.
func (s *AuthService) Profile(ctx context.Context, subject string) (*model.UserProfile, error) {
	p, err := s.users.GetByAuthID(ctx, subject)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GrantAdmin назначает роль администратора пользователю с данным subject.
func (s *AuthService) GrantAdmin(ctx context.Context, subject string) error {
	p, err := s.Profile(ctx, subject)
	if err != nil {
		return err
	}
	return s.users.GrantRole(ctx, p.ID, model.RoleAdmin)
}

func profileFromIdentity(id model.Identity) *model.UserProfile {
	email := id.Email
	if email == "" {
		email = id.Subject + "@auth0.local"
	}
	name := defaultUserName
	for _, candidate := range []string{id.Name, id.Nickname, id.GivenName} {
		if candidate != "" {
			name = candidate
			break
		}
	}
	p := &model.UserProfile{Auth0UserID: id.Subject, Email: email, Name: &name}
	if id.Picture != "" {
		picture := id.Picture
		p.AvatarURL = &picture
	}
	return p
}
