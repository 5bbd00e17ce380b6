package mysql

import (
	"context"
	"fmt"

	"workshop-golang/internal/storage"
)

func (s *Storage) LoadProviders(ctx context.Context) ([]storage.MaterialProvider, error) {
	const op = "storage.mysql.LoadProviders"

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, lead_days FROM material_providers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения поставщиков: %w", op, err)
	}
	defer rows.Close()

	var providers []storage.MaterialProvider
	for rows.Next() {
		var p storage.MaterialProvider
		if err := rows.Scan(&p.Name, &p.LeadDays); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования поставщика: %w", op, err)
		}
		providers = append(providers, p)
	}

	return providers, rows.Err()
}

func (s *Storage) SaveProvider(ctx context.Context, p storage.MaterialProvider) error {
	const op = "storage.mysql.SaveProvider"

	query := `INSERT INTO material_providers (name, lead_days) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE lead_days = VALUES(lead_days)`

	_, err := s.db.ExecContext(ctx, query, p.Name, p.LeadDays)
	if err != nil {
		return fmt.Errorf("%s: ошибка сохранения поставщика %s: %w", op, p.Name, err)
	}

	return nil
}
