package synccore_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

func expense(id string, localID int64, pending bool) *entity.Expense {
	e := &entity.Expense{Category: "Rent", Amount: decimal.NewFromInt(10)}
	e.ID = id
	e.LocalID = localID
	e.Pending = pending
	return e
}

func TestReduce_NoModificaElEstadoAnterior(t *testing.T) {
	s0 := synccore.InitialState(entity.DefaultSettings())
	s1 := synccore.Reduce(s0, synccore.RecordAdded{Record: expense("", 1, true)})
	s2 := synccore.Reduce(s1, synccore.RecordAdded{Record: expense("", 2, true)})
	s3 := synccore.Reduce(s2, synccore.RecordRemoved{Resource: entity.ResourceExpenses, Key: "local-1"})

	assert.Empty(t, s0.Collection(entity.ResourceExpenses).Data)
	assert.Len(t, s1.Collection(entity.ResourceExpenses).Data, 1)
	assert.Len(t, s2.Collection(entity.ResourceExpenses).Data, 2)
	require.Len(t, s3.Collection(entity.ResourceExpenses).Data, 1)
	assert.Equal(t, "local-2", s3.Collection(entity.ResourceExpenses).Data[0].Key())
	assert.Equal(t, "local-2", s2.Collection(entity.ResourceExpenses).Data[0].Key(), "los nuevos van al principio")
}

func TestReduce_LoadingEsUnContador(t *testing.T) {
	s := synccore.InitialState(entity.DefaultSettings())
	s = synccore.Reduce(s, synccore.LoadStarted{Resource: entity.ResourceSales})
	s = synccore.Reduce(s, synccore.LoadStarted{Resource: entity.ResourceSales})
	s = synccore.Reduce(s, synccore.LoadFailed{Resource: entity.ResourceSales, Err: "timeout"})
	assert.True(t, s.Collection(entity.ResourceSales).Loading)
	assert.Equal(t, "timeout", s.LastError)

	s = synccore.Reduce(s, synccore.LoadSucceeded{Resource: entity.ResourceSales, At: time.Now()})
	col := s.Collection(entity.ResourceSales)
	assert.False(t, col.Loading)
	assert.Empty(t, col.Error)
	assert.Equal(t, "timeout", s.LastError, "la ranura compartida solo la limpia ErrorCleared")

	s = synccore.Reduce(s, synccore.ErrorCleared{})
	assert.Empty(t, s.LastError)
}

func TestReduce_CreateConfirmed(t *testing.T) {
	s := synccore.InitialState(entity.DefaultSettings())
	s = synccore.Reduce(s, synccore.RecordAdded{Record: expense("", 7, true)})

	s = synccore.Reduce(s, synccore.CreateConfirmed{Resource: entity.ResourceExpenses, LocalID: 7, Record: expense("srv-1", 7, false)})
	data := s.Collection(entity.ResourceExpenses).Data
	require.Len(t, data, 1)
	assert.Equal(t, "srv-1", data[0].Key())

	// misma confirmación con el mismo _id: reemplaza, no duplica
	s = synccore.Reduce(s, synccore.CreateConfirmed{Resource: entity.ResourceExpenses, LocalID: 7, Record: expense("srv-1", 7, false)})
	assert.Len(t, s.Collection(entity.ResourceExpenses).Data, 1)

	// otra copia del servidor para el mismo localId: se agrega
	s = synccore.Reduce(s, synccore.CreateConfirmed{Resource: entity.ResourceExpenses, LocalID: 7, Record: expense("srv-2", 7, false)})
	assert.Len(t, s.Collection(entity.ResourceExpenses).Data, 2)
}

func TestReduce_RecordRestoredRespetaLimites(t *testing.T) {
	s := synccore.InitialState(entity.DefaultSettings())
	s = synccore.Reduce(s, synccore.RecordRestored{Record: expense("e1", 0, false), Index: 5})
	require.Len(t, s.Collection(entity.ResourceExpenses).Data, 1)
}

func TestReduce_Cola(t *testing.T) {
	s := synccore.InitialState(entity.DefaultSettings())
	s = synccore.Reduce(s, synccore.OperationEnqueued{Operation: synccore.Operation{ID: "a"}})
	s = synccore.Reduce(s, synccore.OperationEnqueued{Operation: synccore.Operation{ID: "b"}})
	s = synccore.Reduce(s, synccore.OperationEnqueued{Operation: synccore.Operation{ID: "c"}})
	s = synccore.Reduce(s, synccore.OperationsRemoved{IDs: []string{"b"}})

	require.Len(t, s.Queue, 2)
	assert.Equal(t, "a", s.Queue[0].ID)
	assert.Equal(t, "c", s.Queue[1].ID)
}

func TestReduce_AgregadosDeInventarioUsanElUmbral(t *testing.T) {
	item := &entity.InventoryItem{Name: "Soap", Quantity: decimal.NewFromInt(8)}
	item.ID = "p1"
	s := synccore.InitialState(entity.DefaultSettings())
	s = synccore.Reduce(s, synccore.LoadSucceeded{Resource: entity.ResourceInventory, Data: []entity.Record{item}, At: time.Now()})
	assert.Equal(t, 1, s.Collection(entity.ResourceInventory).Aggregates.LowStock)

	settings := s.Settings
	settings.LowStockThreshold = decimal.NewFromInt(5)
	s = synccore.Reduce(s, synccore.SettingsLoaded{Settings: settings})
	assert.Equal(t, 0, s.Collection(entity.ResourceInventory).Aggregates.LowStock)
}

// ==================== Store ====================

func TestStore_NotificaEnOrdenYSePuedeDarDeBaja(t *testing.T) {
	store := synccore.NewStore(synccore.InitialState(entity.DefaultSettings()))

	var got []bool
	unsubscribe := store.Subscribe(func(prev, next synccore.State) {
		got = append(got, next.Online)
	})
	store.Dispatch(synccore.ConnectivityChanged{Online: false})
	store.Dispatch(synccore.ConnectivityChanged{Online: true})
	unsubscribe()
	store.Dispatch(synccore.ConnectivityChanged{Online: false})

	assert.Equal(t, []bool{false, true}, got)
	assert.False(t, store.State().Online)
}

// ==================== Operation ====================

func TestOperation_Name(t *testing.T) {
	cases := map[string]synccore.Operation{
		"createExpense":       {Kind: synccore.OpCreate, Resource: entity.ResourceExpenses},
		"createInventoryItem": {Kind: synccore.OpCreate, Resource: entity.ResourceInventory},
		"updateCustomer":      {Kind: synccore.OpUpdate, Resource: entity.ResourceCustomers},
		"deleteSale":          {Kind: synccore.OpDelete, Resource: entity.ResourceSales},
		"loadInventory":       {Kind: synccore.OpLoad, Resource: entity.ResourceInventory},
		"saveSettings":        {Kind: synccore.OpSaveSettings},
		"loadSettings":        {Kind: synccore.OpLoadSettings},
	}
	for want, op := range cases {
		assert.Equal(t, want, op.Name())
	}
}

func TestDecodeQueue(t *testing.T) {
	ops, err := synccore.DecodeQueue(nil)
	require.NoError(t, err)
	assert.Empty(t, ops)

	raw, err := synccore.EncodeQueue(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	_, err = synccore.DecodeQueue([]byte(`{`))
	assert.Error(t, err)
}
