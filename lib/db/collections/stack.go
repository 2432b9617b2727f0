package collections

// Stack is a LIFO sequence of strings
type Stack struct {
	data []string
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// Push appends a value on top of the stack
func (s *Stack) Push(value string) {
	s.data = append(s.data, value)
}

// Pop removes and returns the top value.
// The boolean is false if the stack was empty.
func (s *Stack) Pop() (string, bool) {
	if len(s.data) == 0 {
		return "", false
	}
	last := len(s.data) - 1
	value := s.data[last]
	s.data[last] = ""
	s.data = s.data[:last]
	return value, true
}

// Len returns the number of values on the stack
func (s *Stack) Len() int {
	return len(s.data)
}

// Values returns a copy of the stack from bottom to top
func (s *Stack) Values() []string {
	values := make([]string, len(s.data))
	copy(values, s.data)
	return values
}
