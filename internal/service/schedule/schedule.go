package schedule

import (
	"math"
	"workshop-golang/internal/storage"
)

const (
	// Денежная единица формулы — миллион донгов
	millionUnit = 1_000_000

	// Формула срока изготовления: млн / 40, округление вверх, плюс 1
	// буферный день
	valueDivisor = 40
	bufferDays   = 1

	// Срок нового заказа без суммы — фиксированная константа конструктора,
	// а не вырожденный результат формулы
	DefaultDurationDays = 3

	// День на разгрузку после прихода вана от поставщика
	unloadingDays = 1
)

// ConstructionDuration переводит сумму продажи (в донгах) в срок
// изготовления в днях. Минимум один день.
func ConstructionDuration(value int64) int {
	millions := float64(value) / millionUnit
	days := int(math.Ceil(millions/valueDivisor)) + bufferDays
	if days < 1 {
		days = 1
	}
	return days
}

// CNCDuration — календарные дни между получением файла и заказом вана.
// Оценка только для отображения: при пустой или кривой дате, а также когда
// ван заказан раньше файла, возвращается 0.
func CNCDuration(fileReceivedISO, materialOrderISO string) int {
	if !storage.ValidISO(fileReceivedISO) || !storage.ValidISO(materialOrderISO) {
		return 0
	}
	days := storage.DaysBetween(fileReceivedISO, materialOrderISO)
	if days < 0 {
		return 0
	}
	return days
}

// ProviderLeadDays — срок поставки по выбранным поставщикам: гейтит самый
// медленный, поэтому максимум, а не сумма. Имена вне справочника дают 0.
func ProviderLeadDays(names []string, providers []storage.MaterialProvider) int {
	byName := make(map[string]int, len(providers))
	for _, p := range providers {
		byName[p.Name] = p.LeadDays
	}

	maxLead := 0
	for _, name := range names {
		if lead, ok := byName[name]; ok && lead > maxLead {
			maxLead = lead
		}
	}
	return maxLead
}

// ComputeSchedule пересчитывает производные даты заказа. Чистая функция:
// заказ не трогает, вызывается заново после каждой правки суммы, даты
// заказа вана или списка поставщиков.
func ComputeSchedule(o *storage.ProductionOrder, providers []storage.MaterialProvider) (pickingDate string, durationDays int) {
	durationDays = ConstructionDuration(o.Value)

	if o.MaterialOrderDate == "" {
		return "", durationDays
	}

	lead := ProviderLeadDays(o.BoardProviders, providers)
	pickingDate = storage.AddDays(o.MaterialOrderDate, lead+unloadingDays)

	return pickingDate, durationDays
}

// AcceptanceDate — прогноз приёмки: дата доставки плюс срок изготовления.
// Только для отображения, в заказе не хранится.
func AcceptanceDate(deliveryISO string, durationDays int) string {
	if deliveryISO == "" {
		return ""
	}
	return storage.AddDays(deliveryISO, durationDays)
}
