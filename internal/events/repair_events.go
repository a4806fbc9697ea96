package events

import (
	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"
)

const (
	RepairCreated          = "repair.created"
	RepairStatusChanged    = "repair.status_changed"
	RepairCompleted        = "repair.completed"
	RepairMechanicAssigned = "repair.mechanic_assigned"
)

// RepairCreatedEvent возникает после создания заявки (сотрудником или ботом).
type RepairCreatedEvent struct {
	Ticket entities.RepairTicket
}

func (e RepairCreatedEvent) Name() string { return RepairCreated }

type RepairStatusChangedEvent struct {
	Ticket entities.RepairTicket
	From   constants.RepairStatus
	To     constants.RepairStatus
}

func (e RepairStatusChangedEvent) Name() string { return RepairStatusChanged }

// RepairCompletedEvent публикуется вместе с RepairStatusChangedEvent при переходе в completed.
type RepairCompletedEvent struct {
	Ticket entities.RepairTicket
}

func (e RepairCompletedEvent) Name() string { return RepairCompleted }

// RepairMechanicAssignedEvent: при Claimed механик взял заявку сам.
type RepairMechanicAssignedEvent struct {
	Ticket     entities.RepairTicket
	MechanicID uint64
	Claimed    bool
}

func (e RepairMechanicAssignedEvent) Name() string { return RepairMechanicAssigned }
