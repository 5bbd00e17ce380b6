package constants

// Каталог шагов производственного процесса. Порядок фиксированный:
// позиция шага определяет прогресс заказа, префикс — грубую стадию.
var WorkflowSteps = []string{
	"1.1 Cọc khảo sát",
	"1.2 Chốt bản vẽ",
	"2.1 Đặt ván NCC",
	"2.2 Vật tư về xưởng",
	"3.1 Soạn hàng giao",
	"3.2 Hoàn thành",
}

// Статус нового заказа из трекера, когда колонка статуса пустая
const DefaultTaskName = "Công việc mới"

// Заглушка названия — заказы с таким названием не показываются
const PlaceholderTitle = "Chưa đặt tên"

// Встроенный справочник поставщиков (срок поставки в днях), используется
// пока в базе нет своего
var MaterialProviderLeadDays = map[string]int{
	"An Cường":  5,
	"Ba Thanh":  3,
	"Minh Long": 2,
	"Mộc Phát":  4,
	"Ván Việt":  2,
}

var TechList = []string{
	"Tuấn CNC",
	"Hải CNC",
	"Phúc kỹ thuật",
}

var WorkerList = []string{
	"Thợ Nam",
	"Thợ Bình",
	"Thợ Cường",
	"Thợ Lộc",
}

var ProductTypes = []string{
	"Hàng lẻ đặt",
	"Công trình",
	"Tủ bếp",
	"Nội thất văn phòng",
}

var OtherSupplies = []string{
	"Bản lề",
	"Ray trượt",
	"Tay nắm",
	"Kính",
	"Đèn led",
	"Sơn PU",
}

// Метки статуса вспомогательных материалов, в тексте может быть максимум одна
const (
	SupplyTagOrdering  = "[Đang đặt]"
	SupplyTagDelivered = "[Đã giao]"
)
