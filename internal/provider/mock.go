package provider

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	ProviderName string
	Drafts       []Draft
	Err          error
	Calls        int
}

func (m *MockProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockProvider) FetchNews(_ string) ([]Draft, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Drafts) == 0 {
		return nil, ErrNoArticles
	}
	return m.Drafts, nil
}
