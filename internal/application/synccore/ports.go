package synccore

import (
	"context"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Gateway puerto hacia la API remota /business/*.
// Los errores de transporte envuelven domain.ErrNetwork; un 401 envuelve domain.ErrUnauthorized.
type Gateway interface {
	List(ctx context.Context, res entity.Resource, params map[string]string) ([]entity.Record, error)
	Create(ctx context.Context, rec entity.Record) (entity.Record, error)
	// Update envía el registro completo a /business/<resource>/<_id>.
	Update(ctx context.Context, rec entity.Record) (entity.Record, error)
	Delete(ctx context.Context, res entity.Resource, id string) error
	GetSettings(ctx context.Context) (entity.Settings, error)
	UpdateSettings(ctx context.Context, s entity.Settings) (entity.Settings, error)
}
