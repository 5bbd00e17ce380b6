package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"workshop-golang/internal/constants"
	"workshop-golang/internal/notify"
	"workshop-golang/internal/service/dashboard"
	"workshop-golang/internal/service/pipeline"
	"workshop-golang/internal/service/schedule"
	"workshop-golang/internal/service/tracker"
	"workshop-golang/internal/service/workflow"
	"workshop-golang/internal/storage"
)

type OrderStore interface {
	LoadOrders(ctx context.Context) ([]*storage.ProductionOrder, error)
	SaveOrder(ctx context.Context, o *storage.ProductionOrder) error
	DeleteOrder(ctx context.Context, id string) error
	ReplaceOrders(ctx context.Context, orders []*storage.ProductionOrder) error
	LoadProviders(ctx context.Context) ([]storage.MaterialProvider, error)
	SaveProvider(ctx context.Context, p storage.MaterialProvider) error
}

type TrackerClient interface {
	Upsert(ctx context.Context, key string, fields tracker.RawRecord) error
	Delete(ctx context.Context, key string) error
}

type Publisher interface {
	PublishSnapshot(version int64, orders []*storage.ProductionOrder)
}

const writeTimeout = 5 * time.Second

// Collection — рабочий набор заказов в памяти. Единственный владелец
// коллекции: конвейер и обработчики получают срезы только отсюда и никогда
// их не мутируют. Правки применяются оптимистично и сразу видимы, запись в
// хранилище и трекер уходит фоном по принципу best effort: неудача
// помечает заказ failed и сообщается оператору, отката нет. Побеждает
// последняя запись, протокола упорядочивания нет.
type Collection struct {
	mu        sync.RWMutex
	orders    []*storage.ProductionOrder
	providers []storage.MaterialProvider
	version   int64

	// мемоизация конвейера: полный пересчёт только при смене версии,
	// критериев или календарного дня
	memo struct {
		version  int64
		today    string
		criteria pipeline.Criteria
		visible  []*storage.ProductionOrder
	}

	store OrderStore
	trk   TrackerClient
	sink  notify.Sink
	pub   Publisher
	log   *slog.Logger
}

func New(store OrderStore, trk TrackerClient, sink notify.Sink, pub Publisher, log *slog.Logger) *Collection {
	return &Collection{
		store: store,
		trk:   trk,
		sink:  sink,
		pub:   pub,
		log:   log,
	}
}

// NewOrder — заказ с дефолтами конструктора. Срок — фиксированные 3 дня;
// формула от нулевой суммы дала бы вырожденный результат, нулевая сумма —
// не бизнес-ввод.
func NewOrder() *storage.ProductionOrder {
	return &storage.ProductionOrder{
		ID:               uuid.NewString(),
		StepLabel:        workflow.InitialStep(),
		Stage:            string(workflow.StageDesign),
		Progress:         0,
		ProductType:      constants.ProductTypes[0],
		FileReceivedDate: storage.TodayISO(),
		DurationDays:     schedule.DefaultDurationDays,
		CreatedAt:        time.Now().UnixMilli(),
		SyncState:        storage.SyncPending,
	}
}

// Load подтягивает заказы и справочник поставщиков из хранилища.
// Параллельно — обе выборки независимы.
func (c *Collection) Load(ctx context.Context) error {
	const op = "collection.Load"

	var (
		orders    []*storage.ProductionOrder
		providers []storage.MaterialProvider
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = c.store.LoadOrders(gCtx)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		providers, err = c.store.LoadProviders(gCtx)
		if err != nil {
			return fmt.Errorf("providers: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(providers) == 0 {
		providers = DefaultProviders()
	}

	c.mu.Lock()
	c.orders = orders
	c.providers = providers
	c.version++
	c.mu.Unlock()

	c.publish()

	return nil
}

// DefaultProviders — встроенный справочник, пока админ не завёл свой
func DefaultProviders() []storage.MaterialProvider {
	names := make([]string, 0, len(constants.MaterialProviderLeadDays))
	for name := range constants.MaterialProviderLeadDays {
		names = append(names, name)
	}
	sort.Strings(names)

	providers := make([]storage.MaterialProvider, 0, len(names))
	for _, name := range names {
		providers = append(providers, storage.MaterialProvider{
			Name:     name,
			LeadDays: constants.MaterialProviderLeadDays[name],
		})
	}
	return providers
}

func (c *Collection) Version() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Orders — снимок рабочего набора (копия среза, элементы общие)
func (c *Collection) Orders() []*storage.ProductionOrder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*storage.ProductionOrder(nil), c.orders...)
}

func (c *Collection) Providers() []storage.MaterialProvider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]storage.MaterialProvider(nil), c.providers...)
}

// Visible — мемоизированный прогон конвейера видимости
func (c *Collection) Visible(criteria pipeline.Criteria) []*storage.ProductionOrder {
	today := pipeline.NowISO()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memo.visible != nil && c.memo.version == c.version &&
		c.memo.criteria == criteria && c.memo.today == today {
		return c.memo.visible
	}

	visible := pipeline.Visible(c.orders, criteria, today)

	c.memo.version = c.version
	c.memo.today = today
	c.memo.criteria = criteria
	c.memo.visible = visible

	return visible
}

// Dashboard — видимые заказы, группы и счётчики одним вызовом
func (c *Collection) Dashboard(criteria pipeline.Criteria) ([]*storage.ProductionOrder, []*storage.GroupedOrder, storage.DashboardStats) {
	visible := c.Visible(criteria)
	groups := dashboard.GroupByTitle(visible)
	stats := dashboard.ComputeStats(visible, pipeline.NowISO())
	return visible, groups, stats
}
