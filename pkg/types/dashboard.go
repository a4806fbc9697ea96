package types

// Счётчики для панели руководителя
type DashboardCounts struct {
	Customers int64 `json:"customers"`
	Employees int64 `json:"employees"`
	Services  int64 `json:"services"`
	Vehicles  int64 `json:"vehicles"`
	Repairs   int64 `json:"repairs"`
}

type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

type ServiceUsage struct {
	ServiceID uint64 `json:"service_id"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

type VehicleUsage struct {
	VehicleID uint64 `json:"vehicle_id"`
	Plate     string `json:"plate"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Count     int64  `json:"count"`
}
