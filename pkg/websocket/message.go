package websocket

import "time"

// Envelope: конверт сообщения; по Type фронтенд решает, что обновить.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// RepairPayload: изменение заявки на ремонт для панели.
type RepairPayload struct {
	EventID    string  `json:"event_id"`
	RepairID   uint64  `json:"repair_id"`
	Status     string  `json:"status"`
	StatusText string  `json:"status_text"`
	Plate      string  `json:"plate"`
	Customer   string  `json:"customer"`
	Service    string  `json:"service"`
	MechanicID *uint64 `json:"mechanic_id,omitempty"`
	Mechanic   *string `json:"mechanic,omitempty"`
	Message    string  `json:"message"`
}
