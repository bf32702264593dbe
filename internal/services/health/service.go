package health

// RunningStatus is reported by the liveness check.
const RunningStatus = "Agent is running"

// Service encapsulates health-related checks.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness payload. It never depends on the generation provider.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": RunningStatus}
}
