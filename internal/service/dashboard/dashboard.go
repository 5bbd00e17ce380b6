package dashboard

import (
	"strings"
	"workshop-golang/internal/storage"
)

// GroupByTitle сворачивает видимые заказы в группы по нормализованному
// названию (trim + upper). Порядок групп — порядок первого вхождения.
func GroupByTitle(visible []*storage.ProductionOrder) []*storage.GroupedOrder {
	byKey := make(map[string]*storage.GroupedOrder)
	var groups []*storage.GroupedOrder

	for _, o := range visible {
		key := strings.ToUpper(strings.TrimSpace(o.Title))
		end := o.EndDate()

		g, ok := byKey[key]
		if !ok {
			g = &storage.GroupedOrder{
				Key:         key,
				Title:       o.Title,
				Client:      o.Client,
				WindowStart: o.StartDate(),
				WindowEnd:   end,
			}
			byKey[key] = g
			groups = append(groups, g)
		}

		g.Items = append(g.Items, o)
		if o.StartDate() < g.WindowStart {
			g.WindowStart = o.StartDate()
		}
		if end > g.WindowEnd {
			g.WindowEnd = end
		}
		// Именно сумма, не среднее — так исторически считает трекер
		g.ProgressSum += o.Progress
	}

	return groups
}

// ComputeStats считает счётчики дашборда по видимому набору.
// Все сравнения дат — строковые по ISO-инварианту.
func ComputeStats(visible []*storage.ProductionOrder, todayISO string) storage.DashboardStats {
	dueLimit := storage.AddDays(todayISO, 3)

	var stats storage.DashboardStats
	stats.Total = len(visible)

	for _, o := range visible {
		end := o.EndDate()

		if o.Progress == 100 {
			stats.Completed++
			continue
		}

		if end != "" && end < todayISO {
			stats.Overdue++
		}
		if end != "" && end >= todayISO && end <= dueLimit {
			stats.DueSoon++
		}
	}

	stats.Active = stats.Total - stats.Completed

	return stats
}
