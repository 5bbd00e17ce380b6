package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"workshop-golang/internal/storage"
)

func TestCanonicalize(t *testing.T) {
	rec := RawRecord{
		"MADON":          "Tủ bếp anh Minh",
		"KHACHHANG":      "Anh Minh",
		"TIEN":           "120",
		"PHAN-LOAI":      "Hàng lẻ đặt",
		"TT DON HANG":    "2.1 Đặt ván NCC",
		"VAN":            "An Cường, Minh Long",
		"NGAY-GIAO":      "20/01/2024",
		"TIME":           "4",
		"CNC":            "Tùng",
		"NGAY-NHAN-FILE": "5/1/2024",
		"NGAY-DAT-HANG":  "08/01/2024",
		"THO-CHINH":      "Hải",
		"TUYEN GIAO":     "Quận 7",
		"GHICHU":         "gọi trước khi giao",
		"SDT":            "0901234567",
	}

	o, err := Canonicalize(rec)
	require.NoError(t, err)

	assert.Equal(t, "tracker_Tủ bếp anh Minh", o.ID)
	assert.Equal(t, "Tủ bếp anh Minh", o.ExternalKey)
	assert.Equal(t, "Tủ bếp anh Minh", o.Title)
	assert.Equal(t, "Anh Minh", o.Client)
	assert.Equal(t, int64(120_000_000), o.Value)
	assert.Equal(t, "2.1 Đặt ván NCC", o.StepLabel)
	assert.Equal(t, "material", o.Stage)
	assert.Equal(t, 50, o.Progress)
	assert.Equal(t, []string{"An Cường", "Minh Long"}, o.BoardProviders)
	assert.Equal(t, "2024-01-05", o.FileReceivedDate)
	assert.Equal(t, "2024-01-08", o.MaterialOrderDate)
	assert.Equal(t, "2024-01-20", o.DeliveryDate)
	assert.Equal(t, 4, o.DurationDays)
	assert.Equal(t, "Tùng", o.AssignedTech)
	assert.Equal(t, "Hải", o.AssignedWorker)
	assert.Equal(t, "Quận 7", o.DeliveryRoute)
	assert.Equal(t, storage.SyncSynced, o.SyncState)
}

func TestCanonicalize_AliasPriority(t *testing.T) {
	// при двух именах одной колонки выигрывает первое из списка
	rec := RawRecord{
		"MADON":      "DH-01",
		"KHACHHANG":  "Anh Minh",
		"Khach hang": "Chị Lan",
	}

	o, err := Canonicalize(rec)
	require.NoError(t, err)
	assert.Equal(t, "Anh Minh", o.Client)
}

func TestCanonicalize_StatusRule(t *testing.T) {
	t.Run("маркер 3. завершает заказ", func(t *testing.T) {
		o, err := Canonicalize(RawRecord{"MADON": "a", "TT DON HANG": "3.1 Soạn hàng giao"})
		require.NoError(t, err)
		assert.Equal(t, 100, o.Progress)
		assert.Equal(t, "production", o.Stage)
	})

	t.Run("остальные наполовину", func(t *testing.T) {
		o, err := Canonicalize(RawRecord{"MADON": "a", "TT DON HANG": "1.2 Chốt bản vẽ"})
		require.NoError(t, err)
		assert.Equal(t, 50, o.Progress)
	})

	t.Run("пустой статус получает имя по умолчанию", func(t *testing.T) {
		o, err := Canonicalize(RawRecord{"MADON": "a"})
		require.NoError(t, err)
		assert.Equal(t, "Công việc mới", o.StepLabel)
		assert.Equal(t, 50, o.Progress)
	})
}

func TestCanonicalize_Rejects(t *testing.T) {
	_, err := Canonicalize(RawRecord{"KHACHHANG": "Anh Minh"})
	assert.ErrorIs(t, err, ErrMissingOrderCode)

	_, err = Canonicalize(RawRecord{"MADON": "   "})
	assert.ErrorIs(t, err, ErrMissingOrderCode)
}

func TestParseMoney(t *testing.T) {
	assert.Equal(t, int64(120_000_000), parseMoney("120"))
	assert.Equal(t, int64(1_500_000_000), parseMoney("1.500")) // разделители игнорируются
	assert.Equal(t, int64(80_000_000), parseMoney("80 tr"))

	// нечитаемая сумма — 0, не ошибка
	assert.Equal(t, int64(0), parseMoney(""))
	assert.Equal(t, int64(0), parseMoney("chưa chốt"))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 4, parseDuration("4"))
	assert.Equal(t, 5, parseDuration(" 5 "))
	// мусор и нулевые значения дают дефолт конструктора
	assert.Equal(t, 3, parseDuration(""))
	assert.Equal(t, 3, parseDuration("vài ngày"))
	assert.Equal(t, 3, parseDuration("0"))
	assert.Equal(t, 3, parseDuration("-2"))
}
