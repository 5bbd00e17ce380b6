package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"workshop-golang/internal/storage"
)

const orderColumns = `id, external_key, title, client, value, product_type,
		step_label, stage, progress, file_received_date, material_order_date,
		delivery_date, duration_days, picking_date, board_providers,
		assigned_tech, assigned_worker, delivery_route, other_supplies,
		note, client_phone, is_urgent, skipped, tags, created_at`

// LoadOrders читает весь рабочий набор, свежие заказы первыми
func (s *Storage) LoadOrders(ctx context.Context) ([]*storage.ProductionOrder, error) {
	const op = "storage.mysql.LoadOrders"

	query := `SELECT ` + orderColumns + ` FROM production_orders ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения заказов: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.ProductionOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func scanOrder(rows *sql.Rows) (*storage.ProductionOrder, error) {
	var (
		o         storage.ProductionOrder
		providers string
		tags      string
	)

	err := rows.Scan(
		&o.ID, &o.ExternalKey, &o.Title, &o.Client, &o.Value, &o.ProductType,
		&o.StepLabel, &o.Stage, &o.Progress, &o.FileReceivedDate, &o.MaterialOrderDate,
		&o.DeliveryDate, &o.DurationDays, &o.PickingDate, &providers,
		&o.AssignedTech, &o.AssignedWorker, &o.DeliveryRoute, &o.OtherSupplies,
		&o.Note, &o.ClientPhone, &o.IsUrgent, &o.Skipped, &tags, &o.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
	}

	o.BoardProviders = storage.SplitList(providers)
	o.Tags = storage.SplitList(tags)
	// база — источник истины, прочитанное считаем записанным
	o.SyncState = storage.SyncSynced

	return &o, nil
}

// SaveOrder — upsert одного заказа по его id
func (s *Storage) SaveOrder(ctx context.Context, o *storage.ProductionOrder) error {
	const op = "storage.mysql.SaveOrder"

	query := `INSERT INTO production_orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			external_key = VALUES(external_key),
			title = VALUES(title),
			client = VALUES(client),
			value = VALUES(value),
			product_type = VALUES(product_type),
			step_label = VALUES(step_label),
			stage = VALUES(stage),
			progress = VALUES(progress),
			file_received_date = VALUES(file_received_date),
			material_order_date = VALUES(material_order_date),
			delivery_date = VALUES(delivery_date),
			duration_days = VALUES(duration_days),
			picking_date = VALUES(picking_date),
			board_providers = VALUES(board_providers),
			assigned_tech = VALUES(assigned_tech),
			assigned_worker = VALUES(assigned_worker),
			delivery_route = VALUES(delivery_route),
			other_supplies = VALUES(other_supplies),
			note = VALUES(note),
			client_phone = VALUES(client_phone),
			is_urgent = VALUES(is_urgent),
			skipped = VALUES(skipped),
			tags = VALUES(tags)`

	_, err := s.db.ExecContext(ctx, query, orderArgs(o)...)
	if err != nil {
		return fmt.Errorf("%s: ошибка сохранения заказа id=%s: %w", op, o.ID, err)
	}

	return nil
}

func orderArgs(o *storage.ProductionOrder) []interface{} {
	return []interface{}{
		o.ID, o.ExternalKey, o.Title, o.Client, o.Value, o.ProductType,
		o.StepLabel, o.Stage, o.Progress, o.FileReceivedDate, o.MaterialOrderDate,
		o.DeliveryDate, o.DurationDays, o.PickingDate, storage.JoinList(o.BoardProviders),
		o.AssignedTech, o.AssignedWorker, o.DeliveryRoute, o.OtherSupplies,
		o.Note, o.ClientPhone, o.IsUrgent, o.Skipped, storage.JoinList(o.Tags), o.CreatedAt,
	}
}

func (s *Storage) DeleteOrder(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteOrder"

	_, err := s.db.ExecContext(ctx, `DELETE FROM production_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления заказа id=%s: %w", op, id, err)
	}

	return nil
}

// ReplaceOrders заменяет весь набор одной транзакцией (импорт из трекера)
func (s *Storage) ReplaceOrders(ctx context.Context, orders []*storage.ProductionOrder) error {
	const op = "storage.mysql.ReplaceOrders"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM production_orders`); err != nil {
		return fmt.Errorf("%s: ошибка очистки заказов: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO production_orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: ошибка подготовки запроса: %w", op, err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, orderArgs(o)...); err != nil {
			return fmt.Errorf("%s: ошибка вставки заказа id=%s: %w", op, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}
