package storage

import "time"

// Все даты внутри системы — строки ISO `YYYY-MM-DD`. Лексикографическое
// сравнение таких строк совпадает с хронологическим, на этом построены
// фильтры и статистика.
const ISODate = "2006-01-02"

// Формат дат внешнего трекера (dd/mm/yyyy)
const sheetDate = "02/01/2006"

// Форматы, которые пробуем при разборе даты из трекера
var sheetDateFormats = []string{"2/1/2006", ISODate}

func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISODate, s)
}

func ValidISO(s string) bool {
	_, err := time.Parse(ISODate, s)
	return err == nil
}

func TodayISO() string {
	return time.Now().Format(ISODate)
}

// AddDays сдвигает ISO-дату на days календарных дней.
// Пустая или кривая дата даёт пустую строку — «не определено».
func AddDays(iso string, days int) string {
	t, err := time.Parse(ISODate, iso)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(ISODate)
}

// DaysBetween возвращает количество календарных дней от from до to
// (может быть отрицательным). Сентинел 0 при нечитаемых датах.
func DaysBetween(fromISO, toISO string) int {
	from, err := time.Parse(ISODate, fromISO)
	if err != nil {
		return 0
	}
	to, err := time.Parse(ISODate, toISO)
	if err != nil {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// ParseSheetDate переводит дату из текста трекера в ISO.
// Нечитаемое значение нормализуется в пустую строку, а не в ошибку.
func ParseSheetDate(s string) string {
	for _, layout := range sheetDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate)
		}
	}
	return ""
}

// FormatSheetDate переводит ISO-дату в родной формат трекера.
func FormatSheetDate(iso string) string {
	t, err := time.Parse(ISODate, iso)
	if err != nil {
		return ""
	}
	return t.Format(sheetDate)
}
