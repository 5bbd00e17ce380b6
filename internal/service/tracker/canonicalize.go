package tracker

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"workshop-golang/internal/constants"
	"workshop-golang/internal/service/schedule"
	"workshop-golang/internal/service/workflow"
	"workshop-golang/internal/storage"
)

// RawRecord — сырая строка внешнего трекера: имя колонки -> текст ячейки.
// Колонки в таблице исторически называются по-разному, поэтому каждое
// логическое поле ищется по списку известных имён, первое совпадение
// выигрывает.
type RawRecord map[string]string

// Деньги в трекере хранятся в миллионах донгов
const valueScale = 1_000_000

var ErrMissingOrderCode = errors.New("в записи трекера нет кода заказа")

// Таблица канонизации. Списки имён — контракт с внешней таблицей,
// менять их порядок нельзя.
var (
	aliasOrderCode    = []string{"MADON", "Ma don", "Mã Đơn"}
	aliasTitle        = []string{"MADON", "Ma don"}
	aliasClient       = []string{"KHACHHANG", "Khach hang", "KHACH HANG", "KH", "Tenkhach"}
	aliasValue        = []string{"TIEN", "Tien", "Doanh so", "Doanhso"}
	aliasProvider     = []string{"VAN", "Van", "van", "Nha Cung Cap", "NCC"}
	aliasProductType  = []string{"PHAN-LOAI", "Phan loai", "Phanloai"}
	aliasStatus       = []string{"TT DON HANG", "Trang thai", "Status", "status"}
	aliasDeliveryDate = []string{"NGAY-GIAO", "Ngay giao"}
	aliasDuration     = []string{"TIME", "Time", "Thoi gian", "Duration"}
	aliasTech         = []string{"CNC", "Ky thuat", "Nguoilam"}
	aliasFileDate     = []string{"NGAY-NHAN-FILE", "Ngay nhan file"}
	aliasOtherSupply  = []string{"VAT-TU-NGOAI", "Vat tu phu"}
	aliasMaterialDate = []string{"NGAY-DAT-HANG", "Ngay dat van"}
	aliasWorker       = []string{"THO-CHINH", "Tho chinh", "thophutrach"}
	aliasPickingDate  = []string{"SOAN-HANG", "Soan hang"}
	aliasRoute        = []string{"TUYEN GIAO", "Tuyen giao", "TUYEN-GIAO"}
	aliasNote         = []string{"GHICHU", "Ghi chu"}
	aliasPhone        = []string{"SDT"}
)

// Канонический набор колонок экспорта: по одному имени на поле, без
// алиасов. Порядок — порядок колонок в выгружаемом листе.
var ExportColumns = []string{
	"MADON", "KH", "TIEN", "PHAN-LOAI", "TT DON HANG", "VAN",
	"NGAY-GIAO", "TIME", "CNC", "NGAY-NHAN-FILE", "NGAY-DAT-HANG",
	"THO-CHINH", "SOAN-HANG", "TUYEN-GIAO", "GHICHU", "SDT", "VAT-TU-NGOAI",
}

func pick(rec RawRecord, keys []string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v
		}
	}
	return ""
}

var nonDigitsRe = regexp.MustCompile(`\D`)

// parseMoney вытаскивает из текста только цифры и масштабирует в донги.
// Нечитаемая сумма — 0, не ошибка.
func parseMoney(raw string) int64 {
	digits := nonDigitsRe.ReplaceAllString(raw, "")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n * valueScale
}

func parseDuration(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return schedule.DefaultDurationDays
	}
	return n
}

// Canonicalize превращает сырую запись трекера в типизированный заказ.
// Запись без кода заказа отбраковывается целиком — частично собранных
// заказов не бывает.
func Canonicalize(rec RawRecord) (*storage.ProductionOrder, error) {
	code := strings.TrimSpace(pick(rec, aliasOrderCode))
	if code == "" {
		return nil, ErrMissingOrderCode
	}

	status := pick(rec, aliasStatus)

	stepLabel := status
	if stepLabel == "" {
		stepLabel = constants.DefaultTaskName
	}

	// Контракт импорта: статус с маркером "3." — заказ завершён,
	// остальные считаются наполовину сделанными
	progress := 50
	if strings.Contains(status, "3.") {
		progress = 100
	}

	o := &storage.ProductionOrder{
		ID:          "tracker_" + code,
		ExternalKey: code,

		Title:       pick(rec, aliasTitle),
		Client:      pick(rec, aliasClient),
		Value:       parseMoney(pick(rec, aliasValue)),
		ProductType: pick(rec, aliasProductType),

		StepLabel: stepLabel,
		Stage:     string(workflow.ClassifyStage(status)),
		Progress:  progress,

		FileReceivedDate:  storage.ParseSheetDate(pick(rec, aliasFileDate)),
		MaterialOrderDate: storage.ParseSheetDate(pick(rec, aliasMaterialDate)),
		DeliveryDate:      storage.ParseSheetDate(pick(rec, aliasDeliveryDate)),

		DurationDays: parseDuration(pick(rec, aliasDuration)),
		PickingDate:  storage.ParseSheetDate(pick(rec, aliasPickingDate)),

		BoardProviders: storage.SplitList(pick(rec, aliasProvider)),
		AssignedTech:   pick(rec, aliasTech),
		AssignedWorker: pick(rec, aliasWorker),
		DeliveryRoute:  pick(rec, aliasRoute),
		OtherSupplies:  pick(rec, aliasOtherSupply),
		Note:           pick(rec, aliasNote),
		ClientPhone:    pick(rec, aliasPhone),

		CreatedAt: time.Now().UnixMilli(),
		SyncState: storage.SyncSynced,
	}

	return o, nil
}

// ExportRow собирает каноническую строку трекера из заказа.
// Деньги — обратно в миллионы, даты — в родной формат таблицы.
func ExportRow(o *storage.ProductionOrder) RawRecord {
	return RawRecord{
		"MADON":          o.ExportKey(),
		"KH":             o.Client,
		"TIEN":           strconv.FormatInt(o.Value/valueScale, 10),
		"PHAN-LOAI":      o.ProductType,
		"TT DON HANG":    o.StepLabel,
		"VAN":            storage.JoinList(o.BoardProviders),
		"NGAY-GIAO":      storage.FormatSheetDate(o.DeliveryDate),
		"TIME":           strconv.Itoa(o.DurationDays),
		"CNC":            o.AssignedTech,
		"NGAY-NHAN-FILE": storage.FormatSheetDate(o.FileReceivedDate),
		"NGAY-DAT-HANG":  storage.FormatSheetDate(o.MaterialOrderDate),
		"THO-CHINH":      o.AssignedWorker,
		"SOAN-HANG":      storage.FormatSheetDate(o.PickingDate),
		"TUYEN-GIAO":     o.DeliveryRoute,
		"GHICHU":         o.Note,
		"SDT":            o.ClientPhone,
		"VAT-TU-NGOAI":   o.OtherSupplies,
	}
}
