package pipeline

import (
	"sort"
	"strings"
	"time"
	"workshop-golang/internal/constants"
	"workshop-golang/internal/storage"
)

type DateFilter string

const (
	DateAll      DateFilter = "all"
	DateToday    DateFilter = "today"
	DateTomorrow DateFilter = "tomorrow"
	DateThisWeek DateFilter = "this_week"
)

// Критерии видимости заказов. Сравнимая структура — по ней мемоизируется
// результат конвейера.
type Criteria struct {
	Search     string
	DateFilter DateFilter

	CompletedOnly bool
	UrgentOnly    bool
	OverdueOnly   bool

	SortKey  string // "deadline" или пусто (по createdAt)
	SortDesc bool
}

// DateRange — окно [start, end] (обе границы включительно, ISO) для
// фильтра по датам. Неделя всегда с понедельника, независимо от локали.
func DateRange(filter DateFilter, todayISO string) (start, end string, ok bool) {
	today, err := storage.ParseISO(todayISO)
	if err != nil {
		return "", "", false
	}

	switch filter {
	case DateToday:
		d := today.Format(storage.ISODate)
		return d, d, true
	case DateTomorrow:
		d := today.AddDate(0, 0, 1).Format(storage.ISODate)
		return d, d, true
	case DateThisWeek:
		distanceToMonday := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -distanceToMonday)
		sunday := monday.AddDate(0, 0, 6)
		return monday.Format(storage.ISODate), sunday.Format(storage.ISODate), true
	default:
		return "", "", false
	}
}

// Visible прогоняет заказы через цепочку предикатов и сортирует результат.
// Входной срез не меняется, порядок предикатов фиксированный: дешёвые и
// самые отсекающие — первыми.
func Visible(orders []*storage.ProductionOrder, c Criteria, todayISO string) []*storage.ProductionOrder {
	rangeStart, rangeEnd, rangeActive := "", "", false
	if c.DateFilter != "" && c.DateFilter != DateAll {
		rangeStart, rangeEnd, rangeActive = DateRange(c.DateFilter, todayISO)
	}

	search := strings.ToLower(c.Search)

	var out []*storage.ProductionOrder
	for _, o := range orders {
		if o.Title == "" || o.Title == constants.PlaceholderTitle || o.Skipped {
			continue
		}

		if rangeActive {
			start, end := o.StartDate(), o.EndDate()
			// интервалы пересекаются: start <= rangeEnd && end >= rangeStart
			if start == "" || end == "" || start > rangeEnd || end < rangeStart {
				continue
			}
		}

		if search != "" {
			haystack := strings.ToLower(o.Title + o.Client + o.StepLabel)
			if !strings.Contains(haystack, search) {
				continue
			}
		}

		if c.CompletedOnly && o.Progress != 100 {
			continue
		}

		if c.UrgentOnly && !o.IsUrgent {
			continue
		}

		if c.OverdueOnly {
			end := o.EndDate()
			if o.Progress >= 100 || end == "" || end >= todayISO {
				continue
			}
		}

		out = append(out, o)
	}

	sortVisible(out, c)

	return out
}

func sortVisible(orders []*storage.ProductionOrder, c Criteria) {
	if c.SortKey == "deadline" {
		sort.SliceStable(orders, func(i, j int) bool {
			di, dj := orders[i].EndDate(), orders[j].EndDate()
			if c.SortDesc {
				return di > dj
			}
			return di < dj
		})
		return
	}

	// По умолчанию — свежесозданные сверху
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
}

// NowISO — сегодняшняя дата для вызывающих, которым неоткуда взять «сегодня»
func NowISO() string {
	return time.Now().Format(storage.ISODate)
}
