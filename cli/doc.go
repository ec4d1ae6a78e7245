// Package cli is the command line interface of edl.
//
// # Usage
//
//	edl [flags] <command> [args]
//
//	edl compile station.edl                # YAML instances on stdout
//	edl compile -f json -o out.json station.edl
//	edl compile --data rows.yaml station.edl
//	edl check --strict-formulas station.edl
//	edl tokens station.edl
//	edl ast station.edl
//
// compile is the default command, so "edl station.edl" compiles too.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn, error
//   - --log-format: text, json
//   - --log-time-layout: a Go time layout or one of rfc3339, kitchen, none
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorized, indented output
//
// Logging flags are applied before the rest of the command line is parsed,
// so parse errors are already reported in the requested format.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory ("edl init" writes one). Keys are flag names:
//
//	log-level: debug
//	log-pretty: false
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread, trace
//   - --pprof-dir: profile output directory (default: the user cache
//     directory)
package cli
