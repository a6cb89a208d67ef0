package command

import (
	"context"
	"strings"
)

// MockRunner is a test double for Runner.
// Responses are consumed in order; once exhausted, Default is returned.
// Handler, when set, takes precedence over both.
type MockRunner struct {
	Responses []*Result
	Default   *Result
	Handler   func(name string, args ...string) *Result
	Calls     [][]string
}

// Run records the call and returns the scripted result.
func (m *MockRunner) Run(_ context.Context, name string, args ...string) *Result {
	call := append([]string{name}, args...)
	m.Calls = append(m.Calls, call)

	if m.Handler != nil {
		return m.Handler(name, args...)
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[0]
		m.Responses = m.Responses[1:]
		return resp
	}
	return m.Default
}

// CallsTo returns the recorded calls whose joined form contains substr.
func (m *MockRunner) CallsTo(substr string) [][]string {
	var matched [][]string
	for _, call := range m.Calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			matched = append(matched, call)
		}
	}
	return matched
}
