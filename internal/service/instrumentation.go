package service

// Instrumentation is the narrow metrics surface the services record to.
// The Prometheus-backed implementation lives in the http adapter; tests
// use noopInstrumentation.
type Instrumentation interface {
	Evaluation(class, verdict string)
	Command(command, outcome string)
	AuditFailure()
	WindowRearm()
}

// noopInstrumentation discards all measurements.
type noopInstrumentation struct{}

func (noopInstrumentation) Evaluation(class, verdict string) {}
func (noopInstrumentation) Command(command, outcome string)  {}
func (noopInstrumentation) AuditFailure()                    {}
func (noopInstrumentation) WindowRearm()                     {}

// NopInstrumentation returns an Instrumentation that records nothing.
func NopInstrumentation() Instrumentation {
	return noopInstrumentation{}
}
