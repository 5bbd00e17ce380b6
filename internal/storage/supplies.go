package storage

import (
	"regexp"
	"strings"
)

// В тексте вспомогательных материалов может сидеть максимум одна метка
// статуса вида "[Đang đặt]" / "[Đã giao]" — вытаскиваем и меняем её,
// не трогая сами названия.
var supplyTagRe = regexp.MustCompile(`\[.*?\]`)

// SupplyNames — названия материалов без метки статуса
func SupplyNames(s string) string {
	return strings.TrimSpace(supplyTagRe.ReplaceAllString(s, ""))
}

// SupplyTag — текущая метка статуса или пустая строка
func SupplyTag(s string) string {
	return supplyTagRe.FindString(s)
}

// WithSupplyTag заменяет метку статуса, сохраняя список названий.
// Пустой tag просто снимает метку.
func WithSupplyTag(s, tag string) string {
	names := SupplyNames(s)
	if tag == "" {
		return names
	}
	if names == "" {
		return tag
	}
	return names + " " + tag
}
