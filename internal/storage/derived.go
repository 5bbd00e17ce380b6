package storage

// GroupedOrder — строка проектного вида: все заказы с одинаковым
// (нормализованным) названием, свёрнутые в одно окно на шкале времени.
type GroupedOrder struct {
	Key    string             `json:"key"`
	Title  string             `json:"title"`
	Client string             `json:"client"`
	Items  []*ProductionOrder `json:"items"`

	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`

	// Сумма прогрессов позиций, НЕ процент. Исторически так считает
	// трекер; для процента есть AverageProgress.
	ProgressSum int `json:"progress_sum"`
}

// AverageProgress — средний прогресс группы в процентах
func (g *GroupedOrder) AverageProgress() int {
	if len(g.Items) == 0 {
		return 0
	}
	return g.ProgressSum / len(g.Items)
}

type DashboardStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Active    int `json:"active"`
	DueSoon   int `json:"due_soon"`
}
