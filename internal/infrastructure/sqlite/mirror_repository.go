package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
)

// Asegura que MirrorRepo implementa repository.Mirror.
var _ repository.Mirror = (*MirrorRepo)(nil)

// MirrorRepo implementación del espejo local sobre SQLite.
type MirrorRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewMirrorRepository construye el adaptador del espejo local.
func NewMirrorRepository(db *sqlx.DB) *MirrorRepo {
	return &MirrorRepo{db: db, now: time.Now}
}

// Get obtiene el valor de una clave.
func (r *MirrorRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value, `SELECT value FROM mirror_entries WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put inserta o reemplaza el valor de una clave.
func (r *MirrorRepo) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO mirror_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, r.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete elimina una clave. No falla si no existe.
func (r *MirrorRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM mirror_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lista las claves en orden alfabético.
func (r *MirrorRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `SELECT key FROM mirror_entries ORDER BY key`); err != nil {
		return nil, fmt.Errorf("listar claves: %w", err)
	}
	return keys, nil
}
