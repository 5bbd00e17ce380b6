package collection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"workshop-golang/internal/notify"
	"workshop-golang/internal/service/pipeline"
	"workshop-golang/internal/service/tracker"
	"workshop-golang/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadOrders(ctx context.Context) ([]*storage.ProductionOrder, error) {
	args := m.Called(ctx)
	var orders []*storage.ProductionOrder
	if args.Get(0) != nil {
		orders = args.Get(0).([]*storage.ProductionOrder)
	}
	return orders, args.Error(1)
}

func (m *MockStore) SaveOrder(ctx context.Context, o *storage.ProductionOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockStore) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ReplaceOrders(ctx context.Context, orders []*storage.ProductionOrder) error {
	return m.Called(ctx, orders).Error(0)
}

func (m *MockStore) LoadProviders(ctx context.Context) ([]storage.MaterialProvider, error) {
	args := m.Called(ctx)
	var providers []storage.MaterialProvider
	if args.Get(0) != nil {
		providers = args.Get(0).([]storage.MaterialProvider)
	}
	return providers, args.Error(1)
}

func (m *MockStore) SaveProvider(ctx context.Context, p storage.MaterialProvider) error {
	return m.Called(ctx, p).Error(0)
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Upsert(ctx context.Context, key string, fields tracker.RawRecord) error {
	return m.Called(ctx, key, fields).Error(0)
}

func (m *MockTracker) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// sink с памятью — тосты проверяем по содержимому
type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSink) Notify(message string, severity notify.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, notify.Event{Message: message, Severity: severity})
}

func (s *recordingSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Message)
	}
	return out
}

type nopPublisher struct{}

func (nopPublisher) PublishSnapshot(version int64, orders []*storage.ProductionOrder) {}

func newTestCollection(store *MockStore, trk *MockTracker, sink notify.Sink) *Collection {
	if sink == nil {
		sink = &recordingSink{}
	}
	return New(store, trk, sink, nopPublisher{}, slog.Default())
}

func syncState(c *Collection, id string) storage.SyncState {
	for _, o := range c.Orders() {
		if o.ID == id {
			return o.SyncState
		}
	}
	return ""
}

func TestLoad(t *testing.T) {
	store := new(MockStore)
	store.On("LoadOrders", mock.Anything).Return([]*storage.ProductionOrder{
		{ID: "1", Title: "Tủ bếp"},
	}, nil)
	store.On("LoadProviders", mock.Anything).Return([]storage.MaterialProvider{
		{Name: "An Cường", LeadDays: 5},
	}, nil)

	c := newTestCollection(store, new(MockTracker), nil)
	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.Orders(), 1)
	assert.Equal(t, []storage.MaterialProvider{{Name: "An Cường", LeadDays: 5}}, c.Providers())
	assert.Equal(t, int64(1), c.Version())
}

func TestLoad_EmptyProvidersFallsBack(t *testing.T) {
	store := new(MockStore)
	store.On("LoadOrders", mock.Anything).Return(nil, nil)
	store.On("LoadProviders", mock.Anything).Return(nil, nil)

	c := newTestCollection(store, new(MockTracker), nil)
	require.NoError(t, c.Load(context.Background()))

	// без своего справочника работаем на встроенном
	providers := c.Providers()
	require.NotEmpty(t, providers)
	assert.Equal(t, "An Cường", providers[0].Name)
}

func TestLoad_StorageDown(t *testing.T) {
	store := new(MockStore)
	store.On("LoadOrders", mock.Anything).Return(nil, errors.New("connection refused"))
	store.On("LoadProviders", mock.Anything).Return(nil, nil).Maybe()

	c := newTestCollection(store, new(MockTracker), nil)
	assert.Error(t, c.Load(context.Background()))
}

func TestSave_OptimisticThenSynced(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	o := NewOrder()
	o.Title = "Tủ bếp"
	o.Value = 120_000_000
	o.MaterialOrderDate = "2024-01-08"

	saved := c.Save(o)

	// правка видна сразу, ещё до записи
	assert.Len(t, c.Orders(), 1)
	// производные поля пересчитаны: 120 млн -> 4 дня
	assert.Equal(t, 4, saved.DurationDays)
	assert.Equal(t, "2024-01-09", saved.PickingDate) // лид 0 + день разгрузки

	require.Eventually(t, func() bool {
		return syncState(c, o.ID) == storage.SyncSynced
	}, time.Second, 10*time.Millisecond)

	store.AssertCalled(t, "SaveOrder", mock.Anything, mock.Anything)
}

func TestSave_FailureMarksFailed(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(errors.New("db down"))

	sink := &recordingSink{}
	c := newTestCollection(store, new(MockTracker), sink)

	o := NewOrder()
	o.Title = "Tủ bếp"
	c.Save(o)

	// заказ остаётся в наборе, отката нет
	require.Eventually(t, func() bool {
		return syncState(c, o.ID) == storage.SyncFailed
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, c.Orders(), 1)
	assert.Contains(t, sink.messages(), "Không thể lưu đơn hàng")
}

func TestSave_KeepsDurationWithoutValue(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	o := NewOrder()
	o.Title = "Tủ bếp"
	o.DurationDays = 7

	saved := c.Save(o)
	assert.Equal(t, 7, saved.DurationDays)
}

func TestAdvanceStep(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)
	trk.On("Upsert", mock.Anything, "DH-01", mock.Anything).Return(nil)

	sink := &recordingSink{}
	c := newTestCollection(store, trk, sink)

	o := NewOrder()
	o.Title = "Tủ bếp"
	o.ExternalKey = "DH-01"
	c.Save(o)

	advanced, ok := c.AdvanceStep(o.ID)
	require.True(t, ok)
	assert.Equal(t, "1.2 Chốt bản vẽ", advanced.StepLabel)
	assert.Contains(t, sink.messages(), "Đã chuyển sang: 1.2 Chốt bản vẽ")

	// статус уходит в трекер частичной записью
	require.Eventually(t, func() bool {
		for _, call := range trk.Calls {
			if call.Method == "Upsert" {
				fields := call.Arguments.Get(2).(tracker.RawRecord)
				return fields["TT DON HANG"] == "1.2 Chốt bản vẽ"
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestSave_SnapshotIsolation(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	o := NewOrder()
	o.Title = "Tủ bếp"
	c.Save(o)

	// снимок, розданный до завершения фоновой записи
	before := c.Orders()
	require.Len(t, before, 1)
	handedOut := before[0]
	require.Equal(t, storage.SyncPending, handedOut.SyncState)

	require.Eventually(t, func() bool {
		return syncState(c, o.ID) == storage.SyncSynced
	}, time.Second, 10*time.Millisecond)

	// фоновая запись вставила свежий клон, старый снимок не тронут
	assert.Equal(t, storage.SyncPending, handedOut.SyncState)
}

func TestOrders_MarshalDuringPersist(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	// сериализуем снимки, пока фоновые записи меняют sync_state
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			o := NewOrder()
			o.Title = "Tủ bếp"
			c.Save(o)
			c.ToggleUrgent(o.ID)
		}
	}()

	for {
		_, err := json.Marshal(c.Orders())
		require.NoError(t, err)
		select {
		case <-done:
			_, err := json.Marshal(c.Orders())
			require.NoError(t, err)
			return
		default:
		}
	}
}

func TestAdvanceStep_LocalOrderSkipsTracker(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)

	c := newTestCollection(store, trk, nil)

	o := NewOrder()
	o.Title = "Tủ bếp" // без внешнего ключа, в трекере строки нет
	c.Save(o)

	_, ok := c.AdvanceStep(o.ID)
	require.True(t, ok)

	// ждём обе фоновые записи: после Save и после AdvanceStep
	require.Eventually(t, func() bool {
		return len(store.Calls) == 2 && syncState(c, o.ID) == storage.SyncSynced
	}, time.Second, 10*time.Millisecond)

	trk.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceStep_UnknownOrder(t *testing.T) {
	c := newTestCollection(new(MockStore), new(MockTracker), nil)

	_, ok := c.AdvanceStep("нет такого")
	assert.False(t, ok)
}

func TestSaveNote(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)
	trk.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sink := &recordingSink{}
	c := newTestCollection(store, trk, sink)

	o := NewOrder()
	o.Title = "Tủ bếp"
	c.Save(o)

	require.True(t, c.SaveNote(o.ID, "gọi trước khi giao"))

	require.Eventually(t, func() bool {
		for _, m := range sink.messages() {
			if m == "Đã lưu ghi chú" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestSaveNote_TrackerDown(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)
	trk.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("file locked"))

	sink := &recordingSink{}
	c := newTestCollection(store, trk, sink)

	o := NewOrder()
	o.Title = "Tủ bếp"
	c.Save(o)

	require.True(t, c.SaveNote(o.ID, "gọi trước"))

	require.Eventually(t, func() bool {
		for _, m := range sink.messages() {
			if m == "Không thể lưu ghi chú" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestDelete(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)
	store.On("DeleteOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)
	trk.On("Delete", mock.Anything, "DH-01").Return(nil)

	sink := &recordingSink{}
	c := newTestCollection(store, trk, sink)

	o := NewOrder()
	o.Title = "Tủ bếp"
	o.ExternalKey = "DH-01"
	c.Save(o)

	require.True(t, c.Delete(o.ID))
	assert.Empty(t, c.Orders())
	assert.Contains(t, sink.messages(), "Đã xóa.")

	require.Eventually(t, func() bool {
		for _, call := range trk.Calls {
			if call.Method == "Delete" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestDelete_LocalOrderSkipsTracker(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)
	store.On("DeleteOrder", mock.Anything, mock.Anything).Return(nil)

	trk := new(MockTracker)

	c := newTestCollection(store, trk, nil)

	o := NewOrder()
	o.Title = "Tủ bếp" // без внешнего ключа, в трекере его нет
	c.Save(o)

	require.True(t, c.Delete(o.ID))

	require.Eventually(t, func() bool {
		for _, call := range store.Calls {
			if call.Method == "DeleteOrder" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	trk.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestImportReplace(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)
	store.On("ReplaceOrders", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	local := NewOrder()
	local.Title = "местный заказ"
	c.Save(local)

	imported := []*storage.ProductionOrder{
		{ID: "tracker_DH-01", ExternalKey: "DH-01", Title: "DH-01", StepLabel: "1.1 Cọc khảo sát"},
	}

	require.NoError(t, c.ImportReplace(context.Background(), imported))

	orders := c.Orders()
	require.Len(t, orders, 2)

	// местный заказ без внешнего ключа переживает импорт
	ids := []string{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, local.ID)
	assert.Contains(t, ids, "tracker_DH-01")
}

func TestVisible_Memoized(t *testing.T) {
	store := new(MockStore)
	store.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)

	c := newTestCollection(store, new(MockTracker), nil)

	o := NewOrder()
	o.Title = "Tủ bếp"
	c.Save(o)

	// ждём фоновую запись, чтобы версия устоялась
	require.Eventually(t, func() bool {
		return syncState(c, o.ID) == storage.SyncSynced
	}, time.Second, 10*time.Millisecond)

	criteria := pipeline.Criteria{Search: "tủ"}

	first := c.Visible(criteria)
	second := c.Visible(criteria)

	// при той же версии и критериях — тот же срез без пересчёта
	require.Len(t, first, 1)
	assert.Same(t, first[0], second[0])
}

func TestNewOrder_Defaults(t *testing.T) {
	o := NewOrder()

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "1.1 Cọc khảo sát", o.StepLabel)
	assert.Equal(t, "design", o.Stage)
	assert.Equal(t, 0, o.Progress)
	assert.Equal(t, "Hàng lẻ đặt", o.ProductType)
	assert.Equal(t, 3, o.DurationDays)
	assert.Equal(t, storage.SyncPending, o.SyncState)
	assert.Equal(t, storage.TodayISO(), o.FileReceivedDate)
}
