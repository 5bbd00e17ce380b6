package workflow

import (
	"math"
	"strings"
	"workshop-golang/internal/constants"
	"workshop-golang/internal/storage"
)

// Грубая стадия производства, выводится из числового префикса шага
type Stage string

const (
	StageDesign     Stage = "design"
	StageMaterial   Stage = "material"
	StageProduction Stage = "production"
	StageDone       Stage = "done"
)

// ClassifyStage определяет стадию по префиксу текста шага.
// Неопознанный текст считается самой ранней стадией.
func ClassifyStage(label string) Stage {
	l := strings.TrimSpace(label)
	switch {
	case strings.HasPrefix(l, "3.2"):
		return StageDone
	case strings.HasPrefix(l, "3."):
		return StageProduction
	case strings.HasPrefix(l, "2."):
		return StageMaterial
	case strings.HasPrefix(l, "1."):
		return StageDesign
	default:
		return StageDesign
	}
}

func stepIndex(label string) int {
	for i, s := range constants.WorkflowSteps {
		if s == label {
			return i
		}
	}
	return -1
}

// InCatalogue — есть ли такой шаг в каталоге. Статусы, пришедшие из
// трекера свободным текстом, в каталог могут не попадать.
func InCatalogue(label string) bool {
	return stepIndex(label) >= 0
}

// ProgressForStep — прогресс заказа по позиции шага в каталоге.
// Шаг вне каталога даёт 0.
func ProgressForStep(label string) int {
	idx := stepIndex(label)
	if idx < 0 {
		return 0
	}
	total := len(constants.WorkflowSteps)
	return int(math.Round(100 * float64(idx+1) / float64(total)))
}

// NextStep — следующий шаг каталога. С последнего шага (и с шага вне
// каталога) возвращается последний: завершённый заказ дальше не двигается.
func NextStep(label string) string {
	last := len(constants.WorkflowSteps) - 1
	idx := stepIndex(label)
	if idx < 0 || idx >= last {
		return constants.WorkflowSteps[last]
	}
	return constants.WorkflowSteps[idx+1]
}

// InitialStep — первый шаг каталога, стартовое состояние нового заказа
func InitialStep() string {
	return constants.WorkflowSteps[0]
}

// TerminalStep — последний шаг каталога
func TerminalStep() string {
	return constants.WorkflowSteps[len(constants.WorkflowSteps)-1]
}

// Advance переводит заказ на один шаг вперёд и пересчитывает производные
// поля. На последнем шаге — no-op, заказ остаётся завершённым.
func Advance(o *storage.ProductionOrder) {
	next := NextStep(o.StepLabel)
	o.StepLabel = next
	o.Stage = string(ClassifyStage(next))
	o.Progress = ProgressForStep(next)

	if next == TerminalStep() {
		o.Stage = string(StageDone)
		o.Progress = 100
	}
}
