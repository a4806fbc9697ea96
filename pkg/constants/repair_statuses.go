package constants

// --- СТАТУСЫ РЕМОНТА (совпадают со значениями в БД) ---
type RepairStatus string

const (
	RepairPending        RepairStatus = "pending"
	RepairInProgress     RepairStatus = "in_progress"
	RepairAwaitingParts  RepairStatus = "awaiting_parts"
	RepairReadyForReview RepairStatus = "ready_for_review"
	RepairCompleted      RepairStatus = "completed"
	RepairCancelled      RepairStatus = "cancelled"
)

var RepairStatuses = []RepairStatus{
	RepairPending,
	RepairInProgress,
	RepairAwaitingParts,
	RepairReadyForReview,
	RepairCompleted,
	RepairCancelled,
}

// Статусы, в которых ремонт занимает время в расписании.
var ActiveRepairStatuses = []RepairStatus{
	RepairPending,
	RepairInProgress,
}

func (s RepairStatus) IsValid() bool {
	for _, known := range RepairStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s RepairStatus) IsFinal() bool {
	return s == RepairCompleted || s == RepairCancelled
}

func (s RepairStatus) Label() string {
	switch s {
	case RepairPending:
		return "Ожидает"
	case RepairInProgress:
		return "В работе"
	case RepairAwaitingParts:
		return "Ожидает запчасти"
	case RepairReadyForReview:
		return "На проверке"
	case RepairCompleted:
		return "Завершён"
	case RepairCancelled:
		return "Отменён"
	}
	return string(s)
}

// --- СОСТОЯНИЕ АВТОМОБИЛЯ ПРИ ПРИЁМКЕ ---
type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "excellent"
	ConditionGood      VehicleCondition = "good"
	ConditionRegular   VehicleCondition = "regular"
	ConditionBad       VehicleCondition = "bad"
	ConditionCritical  VehicleCondition = "critical"
)

var VehicleConditions = []VehicleCondition{
	ConditionExcellent,
	ConditionGood,
	ConditionRegular,
	ConditionBad,
	ConditionCritical,
}

func (c VehicleCondition) IsValid() bool {
	for _, known := range VehicleConditions {
		if c == known {
			return true
		}
	}
	return false
}

// TransitionPolicy решает, можно ли перевести ремонт из одного статуса в другой.
type TransitionPolicy interface {
	Allows(from, to RepairStatus) bool
}

// PermissiveTransitions разрешает любой переход между известными статусами.
type PermissiveTransitions struct{}

func (PermissiveTransitions) Allows(from, to RepairStatus) bool {
	return from.IsValid() && to.IsValid()
}

// TransitionTable: явная таблица допустимых переходов.
type TransitionTable map[RepairStatus][]RepairStatus

func (t TransitionTable) Allows(from, to RepairStatus) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StrictTransitions: ремонт идёт вперёд по цепочке, отмена возможна до завершения.
// Из финальных статусов выйти нельзя.
var StrictTransitions = TransitionTable{
	RepairPending:        {RepairInProgress, RepairCancelled},
	RepairInProgress:     {RepairAwaitingParts, RepairReadyForReview, RepairCancelled},
	RepairAwaitingParts:  {RepairInProgress, RepairCancelled},
	RepairReadyForReview: {RepairInProgress, RepairCompleted, RepairCancelled},
}
