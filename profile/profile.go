package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface {
	Stop()
}

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Dir is the output directory; empty means a temporary directory.
	Dir string
	// Quiet suppresses the messages printed when profiling starts and stops.
	Quiet bool
}

// Start begins profiling. The returned Stopper is never nil.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return nop{}
	}

	return start(p)
}

type nop struct{}

func (nop) Stop() {}
