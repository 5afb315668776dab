package repository

// Direction is the sort direction of an Order.
type Direction int

const (
	// Ascending sorts smallest first. It is the zero value.
	Ascending Direction = iota
	// Descending sorts largest first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Order sorts a query by one column.
type Order struct {
	Field     Field
	Direction Direction
}

// Asc orders by field ascending.
func Asc(field Field) Order { return Order{Field: field, Direction: Ascending} }

// Desc orders by field descending.
func Desc(field Field) Order { return Order{Field: field, Direction: Descending} }

// Spec describes a read: filter, eager loads, ordering and a skip/take window.
// They apply in that order. A zero Spec matches every row.
type Spec struct {
	filter   Filter
	includes []Include
	orders   []Order
	skip     int
	take     int
}

// NewSpec returns an empty specification.
func NewSpec() *Spec {
	return &Spec{}
}

// Where adds a filter. Repeated calls are combined with AND.
func (s *Spec) Where(f Filter) *Spec {
	if f == nil {
		return s
	}
	if s.filter == nil {
		s.filter = f
	} else {
		s.filter = And(s.filter, f)
	}
	return s
}

// Include eager-loads the named relations.
func (s *Spec) Include(includes ...Include) *Spec {
	s.includes = append(s.includes, includes...)
	return s
}

// OrderBy appends a sort key. Earlier keys take precedence.
func (s *Spec) OrderBy(field Field, dir Direction) *Spec {
	s.orders = append(s.orders, Order{Field: field, Direction: dir})
	return s
}

// Skip drops the first n rows. n <= 0 applies no offset.
func (s *Spec) Skip(n int) *Spec {
	s.skip = n
	return s
}

// Take limits the result to n rows. n <= 0 applies no limit.
func (s *Spec) Take(n int) *Spec {
	s.take = n
	return s
}

// Filter returns the combined filter, nil when the spec matches everything.
func (s *Spec) Filter() Filter { return s.filter }

// Includes returns the relations to eager-load.
func (s *Spec) Includes() []Include { return s.includes }

// Orders returns the sort keys.
func (s *Spec) Orders() []Order { return s.orders }

// Window returns the skip and take values.
func (s *Spec) Window() (skip, take int) { return s.skip, s.take }

func (s *Spec) clone() *Spec {
	if s == nil {
		return NewSpec()
	}
	c := *s
	c.includes = append([]Include(nil), s.includes...)
	c.orders = append([]Order(nil), s.orders...)
	return &c
}
