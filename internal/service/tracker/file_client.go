package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"workshop-golang/internal/storage"
)

// FileClient — клиент внешнего трекера поверх xlsx-файла. Держит строки
// по ключу (код заказа) и переписывает файл целиком на каждой записи:
// таблица маленькая, а формат файла не даёт точечных правок.
type FileClient struct {
	mu   sync.Mutex
	path string
	rows map[string]RawRecord
	keys []string // порядок строк листа
}

func NewFileClient(path string) (*FileClient, error) {
	const op = "tracker.NewFileClient"

	c := &FileClient{
		path: path,
		rows: make(map[string]RawRecord),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		// Файла ещё нет — начнём с пустого листа при первой записи
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	records, err := ReadSheet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, rec := range records {
		key := pick(rec, aliasOrderCode)
		if key == "" {
			continue
		}
		if _, ok := c.rows[key]; !ok {
			c.keys = append(c.keys, key)
		}
		c.rows[key] = rec
	}

	return c, nil
}

// Upsert дозаписывает поля в строку заказа (или заводит новую) и
// сохраняет файл. Частичные обновления — как у быстрого апдейта статуса:
// остальные колонки строки не трогаются.
func (c *FileClient) Upsert(ctx context.Context, key string, fields RawRecord) error {
	const op = "tracker.FileClient.Upsert"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.rows[key]
	if !ok {
		row = make(RawRecord)
		c.rows[key] = row
		c.keys = append(c.keys, key)
	}
	for k, v := range fields {
		row[k] = v
	}

	if err := c.flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *FileClient) Delete(ctx context.Context, key string) error {
	const op = "tracker.FileClient.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rows[key]; !ok {
		return nil
	}
	delete(c.rows, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}

	if err := c.flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// flush переписывает xlsx. Вызывается под мьютексом.
func (c *FileClient) flush() error {
	orders := make([]*storage.ProductionOrder, 0, len(c.keys))
	for _, key := range c.keys {
		o, err := Canonicalize(c.rows[key])
		if err != nil {
			continue
		}
		orders = append(orders, o)
	}

	data, err := WriteSheet(orders)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(c.path, data, 0644)
}
