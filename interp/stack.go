package interp

// Stack is a LIFO tagged with the logical stack it implements so failures
// can say which one underflowed. A positive Limit bounds its depth.
type Stack[T any] struct {
	items []T
	kind  StackKind
	Limit int
}

func NewStack[T any](kind StackKind) *Stack[T] {
	return &Stack[T]{kind: kind}
}

func (s *Stack[T]) Kind() StackKind {
	return s.kind
}

func (s *Stack[T]) Push(v T) error {
	if s.Limit > 0 && len(s.items) >= s.Limit {
		return &StackError{Stack: s.kind, Kind: StackOverflow}
	}
	s.items = append(s.items, v)
	return nil
}

func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, s.underflow()
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *Stack[T]) Top() (T, error) {
	if len(s.items) == 0 {
		var zero T
		return zero, s.underflow()
	}
	return s.items[len(s.items)-1], nil
}

// TopMut returns a pointer to the top element. It is invalidated by the
// next Push.
func (s *Stack[T]) TopMut() (*T, error) {
	if len(s.items) == 0 {
		return nil, s.underflow()
	}
	return &s.items[len(s.items)-1], nil
}

// At returns a pointer to the element at index i counted from the bottom.
func (s *Stack[T]) At(i int) *T {
	return &s.items[i]
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Truncate drops every element at index n and above.
func (s *Stack[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.items) {
		return
	}
	clear(s.items[n:])
	s.items = s.items[:n]
}

// Items exposes the backing slice, bottom first. Callers must not modify it.
func (s *Stack[T]) Items() []T {
	return s.items
}

func (s *Stack[T]) underflow() error {
	return &StackError{Stack: s.kind, Kind: StackUnderflow}
}
