package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2024-01-15", AddDays("2024-01-10", 5))
	assert.Equal(t, "2024-02-02", AddDays("2024-01-31", 2))
	assert.Equal(t, "2024-01-05", AddDays("2024-01-10", -5))

	// кривой вход нормализуется в «не определено»
	assert.Equal(t, "", AddDays("", 3))
	assert.Equal(t, "", AddDays("10/01/2024", 3))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween("2024-01-10", "2024-01-15"))
	assert.Equal(t, -5, DaysBetween("2024-01-15", "2024-01-10"))
	assert.Equal(t, 0, DaysBetween("2024-01-10", "2024-01-10"))
	assert.Equal(t, 0, DaysBetween("", "2024-01-10"))
}

func TestParseSheetDate(t *testing.T) {
	// родной формат трекера, с ведущими нулями и без
	assert.Equal(t, "2024-01-05", ParseSheetDate("5/1/2024"))
	assert.Equal(t, "2024-01-05", ParseSheetDate("05/01/2024"))
	// ISO проходит как есть
	assert.Equal(t, "2024-01-05", ParseSheetDate("2024-01-05"))
	// мусор — пустая строка, не ошибка
	assert.Equal(t, "", ParseSheetDate("hôm qua"))
	assert.Equal(t, "", ParseSheetDate(""))
}

func TestFormatSheetDate(t *testing.T) {
	assert.Equal(t, "05/01/2024", FormatSheetDate("2024-01-05"))
	assert.Equal(t, "", FormatSheetDate(""))
}

func TestISOOrdering(t *testing.T) {
	// строковое сравнение ISO-дат совпадает с хронологическим
	assert.True(t, "2024-01-09" < "2024-01-10")
	assert.True(t, "2023-12-31" < "2024-01-01")
}

func TestSupplyTag(t *testing.T) {
	s := "Bản lề, tay nắm [Đang đặt]"

	assert.Equal(t, "Bản lề, tay nắm", SupplyNames(s))
	assert.Equal(t, "[Đang đặt]", SupplyTag(s))

	t.Run("смена метки", func(t *testing.T) {
		assert.Equal(t, "Bản lề, tay nắm [Đã giao]", WithSupplyTag(s, "[Đã giao]"))
	})

	t.Run("снятие метки", func(t *testing.T) {
		assert.Equal(t, "Bản lề, tay nắm", WithSupplyTag(s, ""))
	})

	t.Run("метка без названий", func(t *testing.T) {
		assert.Equal(t, "[Đang đặt]", WithSupplyTag("", "[Đang đặt]"))
	})
}

func TestCloneIsDeep(t *testing.T) {
	o := &ProductionOrder{
		ID:             "x",
		BoardProviders: []string{"An Cường"},
		Tags:           []string{"gấp"},
	}

	c := o.Clone()
	c.BoardProviders[0] = "Ba Thanh"
	c.Tags = append(c.Tags, "khác")

	assert.Equal(t, []string{"An Cường"}, o.BoardProviders)
	assert.Equal(t, []string{"gấp"}, o.Tags)
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, "DH-01", (&ProductionOrder{ExternalKey: "DH-01", Title: "Tủ bếp"}).ExportKey())
	assert.Equal(t, "Tủ bếp", (&ProductionOrder{Title: "Tủ bếp"}).ExportKey())
}

func TestSameProviders(t *testing.T) {
	assert.True(t, SameProviders([]string{"A", "B"}, []string{"B", "A"}))
	assert.False(t, SameProviders([]string{"A"}, []string{"A", "B"}))
	assert.True(t, SameProviders(nil, nil))
}
