package simulation

// EventType defines the type of event in the simulation
type EventType string

const (
	EventTypeArrival          EventType = "customer-arrived"
	EventTypeServiceStarted   EventType = "service-started"
	EventTypeServersExhausted EventType = "servers-exhausted"
	EventTypeStranded         EventType = "customers-stranded"
)

// Event represents a point-in-time event in the simulation
type Event struct {
	Clock       float64
	Type        EventType
	CustomerID  int
	FreeServers int
	Pending     int
	Message     string
	IsWarning   bool
}
