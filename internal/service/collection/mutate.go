package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workshop-golang/internal/notify"
	"workshop-golang/internal/service/schedule"
	"workshop-golang/internal/service/tracker"
	"workshop-golang/internal/service/workflow"
	"workshop-golang/internal/storage"
)

// Копирование при записи: заказ, однажды вставший в набор, больше не
// мутируется — любая правка (в том числе смена sync_state из фоновой
// записи) вставляет на его место свежий клон. Снимки, уже розданные
// обработчикам и вебсокету, поэтому можно читать и сериализовать без
// блокировок.

// Save применяет правку оптимистично: производные поля пересчитываются,
// заказ встаёт в набор со статусом pending, запись уходит фоном.
func (c *Collection) Save(o *storage.ProductionOrder) *storage.ProductionOrder {
	c.derive(o)
	o.SyncState = storage.SyncPending

	c.mu.Lock()
	c.upsertLocked(o)
	c.mu.Unlock()

	c.publish()
	go c.persist(o)

	return o
}

// Get — клон заказа для правки снаружи
func (c *Collection) Get(id string) (*storage.ProductionOrder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if o := c.findLocked(id); o != nil {
		return o.Clone(), true
	}
	return nil, false
}

// derive — пересчёт производных полей по текущему состоянию заказа.
// Прогресс трогаем только для шагов из каталога: произвольные метки из
// трекера сохраняют свой привезённый прогресс.
func (c *Collection) derive(o *storage.ProductionOrder) {
	o.Stage = string(workflow.ClassifyStage(o.StepLabel))
	if workflow.InCatalogue(o.StepLabel) {
		o.Progress = workflow.ProgressForStep(o.StepLabel)
	}

	picking, duration := schedule.ComputeSchedule(o, c.Providers())
	o.PickingDate = picking
	if o.Value > 0 {
		o.DurationDays = duration
	}
}

// mutateLocked клонирует заказ, применяет правку и вставляет клон на место
// оригинала. Возвращает клон, nil — заказа нет. Вызывается под мьютексом.
func (c *Collection) mutateLocked(id string, apply func(o *storage.ProductionOrder)) *storage.ProductionOrder {
	for i, cur := range c.orders {
		if cur.ID == id {
			cp := cur.Clone()
			apply(cp)
			c.orders[i] = cp
			c.version++
			c.memo.visible = nil
			return cp
		}
	}
	return nil
}

// AdvanceStep переводит заказ на следующий шаг каталога и толкает новый
// статус в трекер. Неизвестная метка уходит на финальный шаг.
func (c *Collection) AdvanceStep(id string) (*storage.ProductionOrder, bool) {
	c.mu.Lock()
	snap := c.mutateLocked(id, func(o *storage.ProductionOrder) {
		workflow.Advance(o)
		o.SyncState = storage.SyncPending
	})
	c.mu.Unlock()

	if snap == nil {
		return nil, false
	}

	c.publish()
	c.sink.Notify("Đã chuyển sang: "+snap.StepLabel, notify.SeveritySuccess)

	go func() {
		c.persist(snap)
		// Локальный заказ в трекере не заведён, строку ему не создаём
		if snap.ExternalKey == "" {
			return
		}
		c.push(snap, tracker.RawRecord{
			"MADON":       snap.ExportKey(),
			"TT DON HANG": snap.StepLabel,
		})
	}()

	return snap, true
}

// SaveNote — правка только ghi chú. Для заказов из трекера частичная
// запись уходит и туда.
func (c *Collection) SaveNote(id, note string) bool {
	c.mu.Lock()
	snap := c.mutateLocked(id, func(o *storage.ProductionOrder) {
		o.Note = note
		o.SyncState = storage.SyncPending
	})
	c.mu.Unlock()

	if snap == nil {
		return false
	}

	c.publish()

	go func() {
		c.persist(snap)
		if snap.ExternalKey == "" {
			c.sink.Notify("Đã lưu ghi chú", notify.SeveritySuccess)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.trk.Upsert(ctx, snap.ExportKey(), tracker.RawRecord{
			"MADON":  snap.ExportKey(),
			"GHICHU": note,
		}); err != nil {
			c.log.Error("не удалось записать ghi chú в трекер", slog.Any("err", err))
			c.sink.Notify("Không thể lưu ghi chú", notify.SeverityError)
			return
		}
		c.sink.Notify("Đã lưu ghi chú", notify.SeveritySuccess)
	}()

	return true
}

// ToggleUrgent — локальный флаг, в трекере колонки под него нет
func (c *Collection) ToggleUrgent(id string) (*storage.ProductionOrder, bool) {
	c.mu.Lock()
	snap := c.mutateLocked(id, func(o *storage.ProductionOrder) {
		o.IsUrgent = !o.IsUrgent
		o.SyncState = storage.SyncPending
	})
	c.mu.Unlock()

	if snap == nil {
		return nil, false
	}

	c.publish()
	go c.persist(snap)

	return snap, true
}

// Delete убирает заказ из набора и из трекера. Строку трекера трогаем
// только если заказ оттуда и пришёл.
func (c *Collection) Delete(id string) bool {
	c.mu.Lock()
	idx := -1
	for i, o := range c.orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.orders[idx]
	c.orders = append(c.orders[:idx], c.orders[idx+1:]...)
	c.version++
	c.memo.visible = nil
	c.mu.Unlock()

	c.publish()
	c.sink.Notify("Đã xóa.", notify.SeveritySuccess)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.store.DeleteOrder(ctx, id); err != nil {
			c.log.Error("не удалось удалить заказ из хранилища",
				slog.String("id", id), slog.Any("err", err))
		}
		if removed.ExternalKey != "" {
			if err := c.trk.Delete(ctx, removed.ExternalKey); err != nil {
				c.log.Error("не удалось удалить строку трекера",
					slog.String("key", removed.ExternalKey), slog.Any("err", err))
			}
		}
	}()

	return true
}

// ImportReplace замещает весь набор строками из трекера. Локальные заказы
// без внешнего ключа переживают импорт.
func (c *Collection) ImportReplace(ctx context.Context, imported []*storage.ProductionOrder) error {
	const op = "collection.ImportReplace"

	for _, o := range imported {
		c.derive(o)
		o.SyncState = storage.SyncSynced
	}

	c.mu.Lock()
	var kept []*storage.ProductionOrder
	for _, o := range c.orders {
		if o.ExternalKey == "" {
			kept = append(kept, o)
		}
	}
	c.orders = append(imported, kept...)
	c.version++
	c.memo.visible = nil
	snapshot := append([]*storage.ProductionOrder(nil), c.orders...)
	c.mu.Unlock()

	c.publish()

	if err := c.store.ReplaceOrders(ctx, snapshot); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveProvider обновляет справочник поставщиков (админский контур)
func (c *Collection) SaveProvider(ctx context.Context, p storage.MaterialProvider) error {
	const op = "collection.SaveProvider"

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%s: пустое имя поставщика", op)
	}
	if p.LeadDays < 0 {
		p.LeadDays = 0
	}

	if err := c.store.SaveProvider(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	found := false
	for i := range c.providers {
		if c.providers[i].Name == p.Name {
			c.providers[i] = p
			found = true
			break
		}
	}
	if !found {
		c.providers = append(c.providers, p)
	}
	c.version++
	c.memo.visible = nil
	c.mu.Unlock()

	c.publish()

	return nil
}

// persist — фоновая запись заказа с переводом pending -> synced/failed.
// Новый статус встаёт в набор свежим клоном, сам snap не трогается.
func (c *Collection) persist(snap *storage.ProductionOrder) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := c.store.SaveOrder(ctx, snap)

	c.mu.Lock()
	c.mutateLocked(snap.ID, func(o *storage.ProductionOrder) {
		if err != nil {
			o.SyncState = storage.SyncFailed
		} else if o.SyncState == storage.SyncPending {
			o.SyncState = storage.SyncSynced
		}
	})
	c.mu.Unlock()

	if err != nil {
		c.log.Error("не удалось сохранить заказ",
			slog.String("id", snap.ID), slog.Any("err", err))
		c.sink.Notify("Không thể lưu đơn hàng", notify.SeverityError)
	}

	c.publish()
}

// push — частичная запись полей заказа в трекер
func (c *Collection) push(snap *storage.ProductionOrder, fields tracker.RawRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := c.trk.Upsert(ctx, snap.ExportKey(), fields); err != nil {
		c.log.Error("не удалось обновить строку трекера",
			slog.String("key", snap.ExportKey()), slog.Any("err", err))
		c.sink.Notify("Không thể cập nhật bảng theo dõi", notify.SeverityError)
	}
}

func (c *Collection) findLocked(id string) *storage.ProductionOrder {
	for _, o := range c.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// upsertLocked ставит заказ в набор по ID, новый — в голову списка
func (c *Collection) upsertLocked(o *storage.ProductionOrder) {
	for i, cur := range c.orders {
		if cur.ID == o.ID {
			c.orders[i] = o
			c.version++
			c.memo.visible = nil
			return
		}
	}
	c.orders = append([]*storage.ProductionOrder{o}, c.orders...)
	c.version++
	c.memo.visible = nil
}

func (c *Collection) publish() {
	if c.pub == nil {
		return
	}
	c.mu.RLock()
	version := c.version
	snapshot := append([]*storage.ProductionOrder(nil), c.orders...)
	c.mu.RUnlock()
	c.pub.PublishSnapshot(version, snapshot)
}
