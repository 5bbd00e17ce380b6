package storage

import "strings"

// Состояние синхронизации заказа с внешними хранилищами.
// Локальная правка применяется сразу (pending), удачная запись переводит
// заказ в synced, неудачная — в failed. Откатов нет, только ручное
// пересохранение.
type SyncState string

const (
	SyncSynced  SyncState = "synced"
	SyncPending SyncState = "pending"
	SyncFailed  SyncState = "failed"
)

type ProductionOrder struct {
	ID          string `json:"id"`
	ExternalKey string `json:"external_key,omitempty"`

	Title       string `json:"title"`
	Client      string `json:"client"`
	Value       int64  `json:"value"`
	ProductType string `json:"product_type"`

	StepLabel string `json:"step_label"`
	Stage     string `json:"stage"`
	Progress  int    `json:"progress"`

	FileReceivedDate  string `json:"file_received_date"`
	MaterialOrderDate string `json:"material_order_date"`
	DeliveryDate      string `json:"delivery_date"`

	DurationDays int    `json:"duration_days"`
	PickingDate  string `json:"picking_date"`

	BoardProviders []string `json:"board_providers"`
	AssignedTech   string   `json:"assigned_tech"`
	AssignedWorker string   `json:"assigned_worker"`
	DeliveryRoute  string   `json:"delivery_route"`
	OtherSupplies  string   `json:"other_supplies"`
	Note           string   `json:"note"`
	ClientPhone    string   `json:"client_phone"`

	IsUrgent bool     `json:"is_urgent"`
	Skipped  bool     `json:"skipped"`
	Tags     []string `json:"tags"`

	CreatedAt int64     `json:"created_at"`
	SyncState SyncState `json:"sync_state"`
}

// Clone — глубокая копия заказа для передачи в фоновую запись
func (o *ProductionOrder) Clone() *ProductionOrder {
	cp := *o
	cp.BoardProviders = append([]string(nil), o.BoardProviders...)
	cp.Tags = append([]string(nil), o.Tags...)
	return &cp
}

// ExportKey — ключ строки во внешнем трекере. У несинхронизированных
// заказов внешнего ключа ещё нет, строка заводится по коду заказа.
func (o *ProductionOrder) ExportKey() string {
	if o.ExternalKey != "" {
		return o.ExternalKey
	}
	return o.Title
}

// StartDate — начало интервала заказа на шкале времени (дата получения файла)
func (o *ProductionOrder) StartDate() string {
	return o.FileReceivedDate
}

// EndDate — конец интервала: старт плюс срок изготовления.
// Пустая строка, когда старт не задан.
func (o *ProductionOrder) EndDate() string {
	return AddDays(o.FileReceivedDate, o.DurationDays)
}

// SplitList разбирает список имён из текста трекера ("A, B, C")
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func JoinList(names []string) string {
	return strings.Join(names, ", ")
}

// SameProviders сравнивает наборы поставщиков без учёта порядка.
// Порядок в самом заказе сохраняется как ввёл оператор.
func SameProviders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, n := range a {
		set[n]++
	}
	for _, n := range b {
		set[n]--
		if set[n] < 0 {
			return false
		}
	}
	return true
}
