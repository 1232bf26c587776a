package services

import "sync"

// MockMailService records outbound mail for testing
type MockMailService struct {
	mu          sync.Mutex
	Invitations []MockInvitation
}

// MockInvitation is one recorded invitation email
type MockInvitation struct {
	ToEmail    string
	InviteLink string
}

// NewMockMailService creates a new mock mail service
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

// SetAsMockForTesting sets this mock as the global mail service instance for testing
func (m *MockMailService) SetAsMockForTesting() {
	SetMailService(m)
}

// SendEngineerInvitation records the invitation instead of sending it
func (m *MockMailService) SendEngineerInvitation(toEmail, inviteLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invitations = append(m.Invitations, MockInvitation{ToEmail: toEmail, InviteLink: inviteLink})
	return nil
}

// Sent returns the recorded invitations
func (m *MockMailService) Sent() []MockInvitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockInvitation, len(m.Invitations))
	copy(out, m.Invitations)
	return out
}
