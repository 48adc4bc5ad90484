package records

// Descriptor configures the generic repository for one entity: its table, its
// primary-key column, which query filters are allowed, which foreign keys must
// resolve before a write, and which dependents block a delete.
type Descriptor[T any] struct {
	Name    string
	Table   string
	PK      string
	PKValue func(*T) uint
	SetPK   func(*T, uint)

	// Filters maps allowed query parameters to their columns. Anything not
	// listed here is rejected, never interpolated.
	Filters map[string]string

	References []ReferenceCheck[T]
	Dependents []Dependent

	Validate func(*T) error
}

// ReferenceCheck declares a foreign key on this entity: Field must resolve to
// an existing row in Table keyed by Column.
type ReferenceCheck[T any] struct {
	Field  string
	Table  string
	Column string
	Value  func(*T) uint
}

// Dependent declares a table whose Column references this entity's primary
// key. Deletes are blocked while dependent rows exist.
type Dependent struct {
	Table  string
	Column string
}
