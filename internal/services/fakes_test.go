package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

// store: общая in-memory "база" для фейковых репозиториев.
type store struct {
	mu           sync.Mutex
	nextID       uint64
	customers    map[uint64]*entities.Customer
	vehicles     map[uint64]*entities.Vehicle
	services     map[uint64]*entities.Service
	employees    map[uint64]*entities.Employee
	appointments map[uint64]*entities.Appointment
	repairs      map[uint64]*entities.RepairTicket
	now          func() time.Time
}

func newStore(now func() time.Time) *store {
	return &store{
		customers:    map[uint64]*entities.Customer{},
		vehicles:     map[uint64]*entities.Vehicle{},
		services:     map[uint64]*entities.Service{},
		employees:    map[uint64]*entities.Employee{},
		appointments: map[uint64]*entities.Appointment{},
		repairs:      map[uint64]*entities.RepairTicket{},
		now:          now,
	}
}

func (s *store) id() uint64 {
	s.nextID++
	return s.nextID
}

func dateKey(t time.Time) string { return t.Format(constants.DateLayout) }

// --- customers ---

type fakeCustomerRepo struct{ *store }

func (r fakeCustomerRepo) GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, uint64(len(out)), nil
}

func (r fakeCustomerRepo) FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r fakeCustomerRepo) FindByPhone(ctx context.Context, phone string) (*entities.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r fakeCustomerRepo) CreateCustomer(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email == customer.Email || c.Phone == customer.Phone {
			return apperrors.ErrConflict
		}
	}
	customer.ID = r.id()
	customer.RegisteredAt = r.now()
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r fakeCustomerRepo) UpdateCustomer(ctx context.Context, customer *entities.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return apperrors.ErrNotFound
	}
	stored := *customer
	r.customers[customer.ID] = &stored
	return nil
}

func (r fakeCustomerRepo) DeleteCustomer(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r fakeCustomerRepo) UpsertByPhone(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error {
	r.mu.Lock()
	for _, c := range r.customers {
		if c.Phone == customer.Phone {
			c.FirstName, c.LastName = customer.FirstName, customer.LastName
			if customer.TelegramChatID != nil {
				c.TelegramChatID = customer.TelegramChatID
			}
			*customer = *c
			r.mu.Unlock()
			return nil
		}
	}
	r.mu.Unlock()
	return r.CreateCustomer(ctx, tx, customer)
}

// --- vehicles ---

type fakeVehicleRepo struct{ *store }

func (r fakeVehicleRepo) GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customerID, byCustomer := filter.Uint64("customer_id")
	var out []entities.Vehicle
	for _, v := range r.vehicles {
		if byCustomer && v.CustomerID != customerID {
			continue
		}
		out = append(out, *v)
	}
	return out, uint64(len(out)), nil
}

func (r fakeVehicleRepo) FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r fakeVehicleRepo) FindByPlate(ctx context.Context, plate string) (*entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.Plate == plate {
			copied := *v
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r fakeVehicleRepo) CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.Plate == vehicle.Plate {
			return apperrors.ErrConflict
		}
	}
	vehicle.ID = r.id()
	vehicle.CreatedAt = r.now()
	stored := *vehicle
	r.vehicles[vehicle.ID] = &stored
	return nil
}

func (r fakeVehicleRepo) UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *vehicle
	r.vehicles[vehicle.ID] = &stored
	return nil
}

func (r fakeVehicleRepo) DeleteVehicle(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vehicles, id)
	return nil
}

func (r fakeVehicleRepo) UpsertByPlate(ctx context.Context, tx pgx.Tx, vehicle *entities.Vehicle) error {
	r.mu.Lock()
	for _, v := range r.vehicles {
		if v.Plate == vehicle.Plate {
			defer r.mu.Unlock()
			if v.CustomerID != vehicle.CustomerID {
				return apperrors.NewValidationError(apperrors.KindInvalidInput, "plate", "номер закреплён за другим клиентом")
			}
			v.Brand, v.Model, v.Year = vehicle.Brand, vehicle.Model, vehicle.Year
			*vehicle = *v
			return nil
		}
	}
	r.mu.Unlock()
	return r.CreateVehicle(ctx, vehicle)
}

// --- services catalog ---

type fakeServiceRepo struct{ *store }

func (r fakeServiceRepo) GetServices(ctx context.Context, filter types.Filter) ([]entities.Service, uint64, error) {
	list, err := r.ListServices(ctx)
	return list, uint64(len(list)), err
}

func (r fakeServiceRepo) ListServices(ctx context.Context) ([]entities.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Service
	for _, s := range r.services {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeServiceRepo) FindService(ctx context.Context, id uint64) (*entities.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r fakeServiceRepo) CreateService(ctx context.Context, service *entities.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	service.ID = r.id()
	stored := *service
	r.services[service.ID] = &stored
	return nil
}

func (r fakeServiceRepo) UpdateService(ctx context.Context, service *entities.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *service
	r.services[service.ID] = &stored
	return nil
}

func (r fakeServiceRepo) DeleteService(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	return nil
}

// --- employees ---

type fakeEmployeeRepo struct{ *store }

func (r fakeEmployeeRepo) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Employee
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, uint64(len(out)), nil
}

func (r fakeEmployeeRepo) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r fakeEmployeeRepo) CreateEmployee(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee.ID = r.id()
	stored := *employee
	r.employees[employee.ID] = &stored
	return nil
}

func (r fakeEmployeeRepo) UpdateEmployee(ctx context.Context, employee *entities.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *employee
	r.employees[employee.ID] = &stored
	return nil
}

func (r fakeEmployeeRepo) DeleteEmployee(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.employees, id)
	return nil
}

// --- appointments ---

type fakeAppointmentRepo struct{ *store }

func (r fakeAppointmentRepo) GetAppointments(ctx context.Context, filter types.Filter) ([]entities.Appointment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customerID, byCustomer := filter.Uint64("customer_id")
	var out []entities.Appointment
	for _, a := range r.appointments {
		if byCustomer && a.CustomerID != customerID {
			continue
		}
		out = append(out, *a)
	}
	return out, uint64(len(out)), nil
}

func (r fakeAppointmentRepo) GetAppointmentsBetween(ctx context.Context, from, to time.Time) ([]entities.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Appointment
	for _, a := range r.appointments {
		if k := dateKey(a.Date); k >= dateKey(from) && k <= dateKey(to) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return dateKey(out[i].Date)+out[i].Slot < dateKey(out[j].Date)+out[j].Slot
	})
	return out, nil
}

func (r fakeAppointmentRepo) FindAppointment(ctx context.Context, id uint64) (*entities.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r fakeAppointmentRepo) takenLocked(date time.Time, slot string, excludeID uint64) bool {
	for _, a := range r.appointments {
		if a.ID != excludeID && dateKey(a.Date) == dateKey(date) && a.Slot == slot {
			return true
		}
	}
	return false
}

func (r fakeAppointmentRepo) IsSlotTaken(ctx context.Context, date time.Time, slot string, excludeID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenLocked(date, slot, excludeID), nil
}

func (r fakeAppointmentRepo) BookedSlots(ctx context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.appointments {
		if dateKey(a.Date) == dateKey(date) {
			out = append(out, a.Slot)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CreateAppointment повторяет UNIQUE(date, slot) из схемы.
func (r fakeAppointmentRepo) CreateAppointment(ctx context.Context, appointment *entities.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(appointment.Date, appointment.Slot, 0) {
		return apperrors.NewValidationError(apperrors.KindSlotConflict, "slot", "слот занят")
	}
	appointment.ID = r.id()
	appointment.CreatedAt = r.now()
	stored := *appointment
	r.appointments[appointment.ID] = &stored
	return nil
}

func (r fakeAppointmentRepo) UpdateAppointment(ctx context.Context, appointment *entities.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(appointment.Date, appointment.Slot, appointment.ID) {
		return apperrors.NewValidationError(apperrors.KindSlotConflict, "slot", "слот занят")
	}
	stored := *appointment
	r.appointments[appointment.ID] = &stored
	return nil
}

func (r fakeAppointmentRepo) DeleteAppointment(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

// --- repairs ---

type fakeRepairRepo struct{ *store }

// joined заполняет поля из связанных таблиц, как это делает SQL-запрос.
func (r fakeRepairRepo) joined(t *entities.RepairTicket) entities.RepairTicket {
	out := *t
	if v, ok := r.vehicles[t.VehicleID]; ok {
		out.Plate, out.CustomerID = v.Plate, v.CustomerID
		if c, ok := r.customers[v.CustomerID]; ok {
			out.CustomerName = c.FullName()
		}
	}
	if s, ok := r.services[t.ServiceID]; ok {
		out.ServiceName, out.ServicePrice = s.Name, s.Price
	}
	if t.MechanicID != nil {
		if e, ok := r.employees[*t.MechanicID]; ok {
			name := e.Name
			out.MechanicName = &name
		}
	}
	return out
}

func (r fakeRepairRepo) GetRepairs(ctx context.Context, filter types.Filter) ([]entities.RepairTicket, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customerID, byCustomer := filter.Uint64("customer_id")
	mechanicID, byMechanic := filter.Uint64("mechanic_id")
	unassigned, _ := filter.String("unassigned")
	status, byStatus := filter.String("status")
	var out []entities.RepairTicket
	for _, t := range r.repairs {
		j := r.joined(t)
		if byCustomer && j.CustomerID != customerID {
			continue
		}
		if byMechanic && (j.MechanicID == nil || *j.MechanicID != mechanicID) {
			continue
		}
		if unassigned == "true" && j.MechanicID != nil {
			continue
		}
		if byStatus && !containsString(splitCSV(status), string(j.Status)) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, uint64(len(out)), nil
}

func (r fakeRepairRepo) FindRepair(ctx context.Context, id uint64) (*entities.RepairTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.repairs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	j := r.joined(t)
	return &j, nil
}

func (r fakeRepairRepo) CreateRepair(ctx context.Context, tx pgx.Tx, ticket *entities.RepairTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = r.id()
	ticket.IntakeAt = r.now()
	ticket.UpdatedAt = ticket.IntakeAt
	stored := *ticket
	r.repairs[ticket.ID] = &stored
	return nil
}

func (r fakeRepairRepo) update(id uint64, fn func(t *entities.RepairTicket)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.repairs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	fn(t)
	t.UpdatedAt = r.now()
	return nil
}

func (r fakeRepairRepo) UpdateStatus(ctx context.Context, id uint64, status constants.RepairStatus) error {
	return r.update(id, func(t *entities.RepairTicket) { t.Status = status })
}

func (r fakeRepairRepo) UpdateMechanic(ctx context.Context, id uint64, mechanicID *uint64) error {
	return r.update(id, func(t *entities.RepairTicket) { t.MechanicID = mechanicID })
}

func (r fakeRepairRepo) ClaimRepair(ctx context.Context, id uint64, mechanicID uint64) (bool, error) {
	claimed := false
	err := r.update(id, func(t *entities.RepairTicket) {
		if t.MechanicID == nil {
			t.MechanicID = &mechanicID
			claimed = true
		}
	})
	return claimed, err
}

func (r fakeRepairRepo) UpdateCompletion(ctx context.Context, id uint64, completedAt *time.Time) error {
	return r.update(id, func(t *entities.RepairTicket) { t.CompletedAt = completedAt })
}

func (r fakeRepairRepo) UpdateNotes(ctx context.Context, id uint64, notes string) error {
	return r.update(id, func(t *entities.RepairTicket) { t.Notes = notes })
}

func (r fakeRepairRepo) GetRepairsForIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.RepairTicket, error) {
	list, _, err := r.GetRepairs(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}
	var out []entities.RepairTicket
	for _, t := range list {
		if filter.OnlyCompleted && t.Status != constants.RepairCompleted {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r fakeRepairRepo) ScheduledSlotsTaken(ctx context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, t := range r.repairs {
		if t.ScheduledDate == nil || t.ScheduledSlot == nil || dateKey(*t.ScheduledDate) != dateKey(date) {
			continue
		}
		if t.Status == constants.RepairPending || t.Status == constants.RepairInProgress {
			out = append(out, *t.ScheduledSlot)
		}
	}
	return out, nil
}

// --- инфраструктура ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// recordingBus запоминает опубликованные события синхронно.
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, event eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name())
	}
	return out
}
