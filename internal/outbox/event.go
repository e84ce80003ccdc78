package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (one topic per event type).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	EventAppointmentScheduled = "scheduling.appointment.scheduled.v1"
	EventAppointmentCanceled  = "scheduling.appointment.canceled.v1"
	EventAppointmentStatus    = "scheduling.appointment.status_changed.v1"
)
