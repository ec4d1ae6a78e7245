// Package profile starts and stops runtime profiling of the edl command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	edl --pprof-mode cpu --pprof-dir /tmp/edl compile station.edl
//	go tool pprof /tmp/edl/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper]. With the tag the package also registers the net/http/pprof
// handlers.
package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"
