package model

import "time"

// UserProfile связывает внешнюю учетную запись провайдера идентификации с внутренним ID пользователя.
type UserProfile struct {
	ID          string    `db:"id" json:"id"`
	Auth0UserID string    `db:"auth0_user_id" json:"auth0_user_id"` // subject из токена провайдера ("auth0|...", "telegram|...")
	Email       string    `db:"email" json:"email"`
	Name        *string   `db:"name" json:"name,omitempty"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Identity - данные пользователя, полученные от провайдера идентификации (claims токена).
type Identity struct {
	Subject   string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserRole представляет роль пользователя (admin/user).
type UserRole struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
