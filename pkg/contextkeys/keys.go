package contextkeys

type contextKey string

const (
	UserIDKey     contextKey = "UserID"
	RoleKey       contextKey = "Role"
	EmployeeIDKey contextKey = "EmployeeID"
	CustomerIDKey contextKey = "CustomerID"
	SystemKey     contextKey = "System"
)
