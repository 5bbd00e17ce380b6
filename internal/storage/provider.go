package storage

// Справочник поставщиков ван. Заказы ссылаются на поставщика по имени:
// переименованный или удалённый поставщик оставляет в заказе «осиротевшее»
// имя, это не ошибка — такой поставщик просто даёт 0 дней поставки.
type MaterialProvider struct {
	Name     string `json:"name"`
	LeadDays int    `json:"lead_days"`
}
