package ai

import (
	"context"
	"sync"
)

// MockProvider is a scriptable provider for tests and local development.
// Responses are returned in order; when the script runs out it keeps
// returning the last entry.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int

	// Prompts records every prompt received, in order.
	Prompts []string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Respond queues a successful response.
func (m *MockProvider) Respond(content string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, content)
	m.errs = append(m.errs, nil)
	return m
}

// Fail queues an error response.
func (m *MockProvider) Fail(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errs = append(m.errs, err)
	return m
}

func (m *MockProvider) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return "{}", nil
	}

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	return m.responses[idx], m.errs[idx]
}

// CallCount returns how many times Generate was invoked.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
