package tracker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"workshop-golang/internal/storage"
)

// собираем xlsx руками, как его отдаёт внешний трекер
func buildSheet(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue("Sheet1", cell, name))
	}
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestImport(t *testing.T) {
	r := buildSheet(t,
		[]string{"MADON", "KH", "TIEN", "TT DON HANG"},
		[][]string{
			{"Tủ bếp", "Anh Minh", "80", "3.2 Hoàn thành"},
			{"", "không có mã", "10", ""}, // без кода — в брак
			{"Kệ sách", "Chị Lan", "40", "1.1 Cọc khảo sát"},
			{"", "", "", ""}, // пустая строка пропускается молча
		},
	)

	orders, rejected, err := Import(r)
	require.NoError(t, err)

	assert.Equal(t, 1, rejected)
	require.Len(t, orders, 2)

	assert.Equal(t, "Tủ bếp", orders[0].ExternalKey)
	assert.Equal(t, 100, orders[0].Progress)
	assert.Equal(t, int64(80_000_000), orders[0].Value)
	assert.Equal(t, "Kệ sách", orders[1].ExternalKey)
	assert.Equal(t, 50, orders[1].Progress)
}

func TestImport_BrokenFile(t *testing.T) {
	_, _, err := Import(bytes.NewReader([]byte("không phải xlsx")))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	src := &storage.ProductionOrder{
		ID:                "tracker_DH-01",
		ExternalKey:       "DH-01",
		Title:             "DH-01",
		Client:            "Anh Minh",
		Value:             120_000_000,
		ProductType:       "Hàng lẻ đặt",
		StepLabel:         "2.1 Đặt ván NCC",
		FileReceivedDate:  "2024-01-05",
		MaterialOrderDate: "2024-01-08",
		DeliveryDate:      "2024-01-20",
		DurationDays:      4,
		BoardProviders:    []string{"An Cường", "Minh Long"},
		AssignedTech:      "Tùng",
		AssignedWorker:    "Hải",
		DeliveryRoute:     "Quận 7",
		Note:              "gọi trước khi giao",
		ClientPhone:       "0901234567",
	}

	data, err := WriteSheet([]*storage.ProductionOrder{src})
	require.NoError(t, err)

	orders, rejected, err := Import(bytes.NewReader(data))
	require.NoError(t, err)
	require.Zero(t, rejected)
	require.Len(t, orders, 1)

	got := orders[0]
	assert.Equal(t, src.ExternalKey, got.ExternalKey)
	assert.Equal(t, src.Client, got.Client)
	assert.Equal(t, src.Value, got.Value)
	assert.Equal(t, src.ProductType, got.ProductType)
	assert.Equal(t, src.StepLabel, got.StepLabel)
	assert.Equal(t, src.FileReceivedDate, got.FileReceivedDate)
	assert.Equal(t, src.MaterialOrderDate, got.MaterialOrderDate)
	assert.Equal(t, src.DeliveryDate, got.DeliveryDate)
	assert.Equal(t, src.DurationDays, got.DurationDays)
	assert.Equal(t, src.BoardProviders, got.BoardProviders)
	assert.Equal(t, src.Note, got.Note)
	assert.Equal(t, src.ClientPhone, got.ClientPhone)
}

func TestExportRow_MoneyBackToMillions(t *testing.T) {
	row := ExportRow(&storage.ProductionOrder{Title: "a", Value: 120_000_000})
	assert.Equal(t, "120", row["TIEN"])
	assert.Equal(t, "a", row["MADON"]) // без внешнего ключа берётся название
}
