package simulation

// ServiceRecord is one customer's passage through the system. A record is
// finalized once DepartureTime has been set; it is not modified afterwards.
type ServiceRecord struct {
	ID            int
	ArrivalTime   float64
	ServiceTime   float64
	DepartureTime float64
}

// Snapshot represents the queue state in effect at a scheduled instant
type Snapshot struct {
	Clock       float64
	Pending     int
	Served      int
	FreeServers int
}

// State is the complete mutable state of a run. It is passed into and
// returned from Step so that a run never depends on package-level state.
type State struct {
	Clock       float64
	FreeServers int
	NextID      int
	Queue       []ServiceRecord // arrived, not yet assigned to a server
	Finalized   []ServiceRecord // assigned, in id order
}

// NewState returns the state at time zero with every server free
func NewState(numServers int) State {
	return State{FreeServers: numServers}
}

// Step advances the run by one arrival and then assigns waiting customers
// to free servers in FIFO order.
//
// Draw order is fixed: the inter-arrival interval first, then the service
// duration. Servers are taken but never handed back, so once FreeServers
// reaches zero every later customer stays queued.
//
// The returned State shares slice storage with st, as with append; only the
// returned value may be used afterwards.
func Step(st State, src Sampler, arrivalRate, serviceRate float64) State {
	st.Clock += src.Exp(arrivalRate)

	st.Queue = append(st.Queue, ServiceRecord{
		ID:          st.NextID,
		ArrivalTime: st.Clock,
		ServiceTime: src.Exp(serviceRate),
	})
	st.NextID++

	for len(st.Queue) > 0 && st.FreeServers > 0 {
		rec := st.Queue[0]
		st.Queue = st.Queue[1:]
		rec.DepartureTime = st.Clock + rec.ServiceTime
		st.Finalized = append(st.Finalized, rec)
		st.FreeServers--
	}

	return st
}
