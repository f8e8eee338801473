package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
	"github.com/jhoicas/skillbridge-business/pkg/jwt"
)

// User usuario de la sesión, tal como se cachea bajo cachedUser.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Manager sesión del cliente respaldada por el espejo local.
// Implementa httpapi.TokenSource.
type Manager struct {
	mirror repository.Mirror
	now    func() time.Time
}

// NewManager construye el gestor de sesión.
func NewManager(mirror repository.Mirror) *Manager {
	return &Manager{mirror: mirror, now: time.Now}
}

// Token devuelve el token guardado o "" si no hay sesión.
func (m *Manager) Token(ctx context.Context) (string, error) {
	raw, ok, err := m.mirror.Get(ctx, repository.KeyAuthToken)
	if err != nil || !ok {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// SetToken guarda el token y cachea el usuario que describe.
// Un token que no es JWT se rechaza antes de escribir nada.
func (m *Manager) SetToken(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	user := userFromClaims(claims)
	if err := m.mirror.Put(ctx, repository.KeyAuthToken, []byte(token)); err != nil {
		return nil, fmt.Errorf("guardar token: %w", err)
	}
	if err := m.cache(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// User devuelve el usuario cacheado; si falta lo reconstruye desde el token.
// Sin sesión devuelve domain.ErrUnauthorized.
func (m *Manager) User(ctx context.Context) (*User, error) {
	raw, ok, err := m.mirror.Get(ctx, repository.KeyCachedUser)
	if err != nil {
		return nil, err
	}
	if ok {
		var u User
		if err := json.Unmarshal(raw, &u); err == nil && u.ID != "" {
			return &u, nil
		}
	}
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user := userFromClaims(claims)
	if err := m.cache(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Expired verdadero si no hay sesión o el token ya venció.
func (m *Manager) Expired(ctx context.Context) (bool, error) {
	u, err := m.User(ctx)
	if errors.Is(err, domain.ErrUnauthorized) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return u.ExpiresAt != nil && !m.now().Before(*u.ExpiresAt), nil
}

// Clear borra token, usuario y el perfil de aprendizaje (cierre de sesión).
func (m *Manager) Clear(ctx context.Context) error {
	keys := append([]string{repository.KeyAuthToken, repository.KeyCachedUser}, repository.LearnerKeys...)
	var errs []error
	for _, k := range keys {
		if err := m.mirror.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("borrar %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) cache(ctx context.Context, u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := m.mirror.Put(ctx, repository.KeyCachedUser, raw); err != nil {
		return fmt.Errorf("guardar usuario: %w", err)
	}
	return nil
}

func userFromClaims(c *jwt.Claims) *User {
	u := &User{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role}
	if c.ExpiresAt != nil {
		t := c.ExpiresAt.Time.UTC()
		u.ExpiresAt = &t
	}
	return u
}
