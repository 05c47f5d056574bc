package connectivity

// check MockReporter compliance to its interface during compile time
var _ Reporter = (*MockReporter)(nil)

// MockReporter changes state only when told to through Set.
type MockReporter struct {
	*Broadcaster
}

func NewMockReporter(initial State, logger Logger) *MockReporter {
	return &MockReporter{
		Broadcaster: NewBroadcaster(initial, logger),
	}
}
