package synccore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/memory"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Gateway en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu       sync.Mutex
	seq      int
	data     map[entity.Resource][]entity.Record
	settings entity.Settings
	calls    map[string]int
	updates  []entity.Record
	deletes  []string

	createErr   func(entity.Record) error
	updateErr   error
	deleteErr   error
	listErr     error
	settingsErr error
	onList      func() ([]entity.Record, error)
	createGate  chan struct{}
	createEnter chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		data:     make(map[entity.Resource][]entity.Record),
		calls:    make(map[string]int),
		settings: entity.DefaultSettings(),
	}
}

func (g *fakeGateway) count(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
}

func (g *fakeGateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) seed(recs ...entity.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range recs {
		g.data[r.Resource()] = append(g.data[r.Resource()], r)
	}
}

func (g *fakeGateway) List(_ context.Context, res entity.Resource, _ map[string]string) ([]entity.Record, error) {
	g.count("list")
	if g.onList != nil {
		return g.onList()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]entity.Record, 0, len(g.data[res]))
	for _, r := range g.data[res] {
		out = append(out, entity.Clone(r))
	}
	return out, nil
}

func (g *fakeGateway) Create(_ context.Context, rec entity.Record) (entity.Record, error) {
	g.count("create")
	if g.createEnter != nil {
		g.createEnter <- struct{}{}
	}
	if g.createGate != nil {
		<-g.createGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		if err := g.createErr(rec); err != nil {
			return nil, err
		}
	}
	g.seq++
	out := entity.Clone(rec)
	out.Base().ID = fmt.Sprintf("srv-%d", g.seq)
	g.data[rec.Resource()] = append(g.data[rec.Resource()], out)
	return entity.Clone(out), nil
}

func (g *fakeGateway) Update(_ context.Context, rec entity.Record) (entity.Record, error) {
	g.count("update")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	g.updates = append(g.updates, entity.Clone(rec))
	return entity.Clone(rec), nil
}

func (g *fakeGateway) Delete(_ context.Context, _ entity.Resource, id string) error {
	g.count("delete")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletes = append(g.deletes, id)
	return nil
}

func (g *fakeGateway) GetSettings(context.Context) (entity.Settings, error) {
	g.count("getSettings")
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings, g.settingsErr
}

func (g *fakeGateway) UpdateSettings(_ context.Context, s entity.Settings) (entity.Settings, error) {
	g.count("updateSettings")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settingsErr != nil {
		return entity.Settings{}, g.settingsErr
	}
	g.settings = s
	return s, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newTestCore(t *testing.T, gw synccore.Gateway, mirror *memory.Mirror) *synccore.Core {
	t.Helper()
	store := synccore.NewStore(synccore.InitialState(entity.DefaultSettings()))
	unsubscribe := synccore.NewPersister(mirror, logger.Nop()).Attach(store)
	t.Cleanup(unsubscribe)
	return synccore.NewCore(store, gw, mirror, logger.Nop())
}

func goOffline(t *testing.T, c *synccore.Core) {
	t.Helper()
	if err := c.SetOnline(context.Background(), false); err != nil {
		t.Fatalf("SetOnline(false): %v", err)
	}
}

func rent() *entity.Expense {
	return &entity.Expense{Category: "Rent", Description: "Office", Amount: decimal.NewFromInt(5000)}
}

func sale(name string) *entity.Sale {
	return &entity.Sale{
		CustomerName: "Walk-in",
		Items:        []entity.SaleItem{{Name: name, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)}},
	}
}

var errRemote = fmt.Errorf("%w: 500 internal", domain.ErrRemote)
