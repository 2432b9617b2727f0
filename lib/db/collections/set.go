package collections

import "sort"

// Set is an unordered set of 32-bit integers
type Set struct {
	data map[int32]struct{}
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{data: make(map[int32]struct{})}
}

// Insert adds a value to the set. It returns false if the value was already a member.
func (s *Set) Insert(value int32) bool {
	if _, ok := s.data[value]; ok {
		return false
	}
	s.data[value] = struct{}{}
	return true
}

// Remove deletes a value from the set. It returns false if the value was not a member.
func (s *Set) Remove(value int32) bool {
	if _, ok := s.data[value]; !ok {
		return false
	}
	delete(s.data, value)
	return true
}

// Contains reports whether value is a member
func (s *Set) Contains(value int32) bool {
	_, ok := s.data[value]
	return ok
}

// Len returns the number of members
func (s *Set) Len() int {
	return len(s.data)
}

// Values returns all members in ascending order
func (s *Set) Values() []int32 {
	values := make([]int32, 0, len(s.data))
	for v := range s.data {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
