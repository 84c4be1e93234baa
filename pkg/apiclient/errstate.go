package apiclient

import "sync"

// errorState holds the most recent quota-exceeded and AI-disabled error
// details for UI components outside the request call stack. The two slots
// are mutually exclusive: the backend reports an organization as either
// disabled or rate-limited, never both, so observing one clears the other.
type errorState struct {
	mu         sync.RWMutex
	quota      *QuotaErrorDetails
	aiDisabled *AIDisabledDetails
}

func (s *errorState) setQuotaError(details *QuotaErrorDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = details
	s.aiDisabled = nil
}

func (s *errorState) setAIDisabledError(details *AIDisabledDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiDisabled = details
	s.quota = nil
}

func (s *errorState) quotaError() *QuotaErrorDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quota == nil {
		return nil
	}
	details := *s.quota
	return &details
}

func (s *errorState) aiDisabledError() *AIDisabledDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.aiDisabled == nil {
		return nil
	}
	details := *s.aiDisabled
	return &details
}

func (s *errorState) clearQuotaError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = nil
}

func (s *errorState) clearAIDisabledError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiDisabled = nil
}
