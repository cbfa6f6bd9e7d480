package shared

// AggregateRoot is the entry point of a consistency boundary.
// All state changes go through the root, which also records the domain
// events raised by those changes until the unit of work pulls them.
type AggregateRoot interface {
	// ID returns the global identity of the aggregate.
	ID() string

	// Version returns the optimistic lock version loaded from storage.
	Version() int

	// PullEvents returns and clears the recorded domain events.
	PullEvents() []DomainEvent
}

// Entity is anything identified by ID rather than by its attributes.
type Entity interface {
	ID() string
}

// ValueObject is compared by value and never mutated in place.
type ValueObject interface {
	Equals(other interface{}) bool
}
