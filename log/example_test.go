package log_test

import (
	"log/slog"
	"os"

	"github.com/Omarmeks89/edl-src/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"))

	logger.Trace("scope created", slog.String("scope", "станция/насосы"))
	logger.With(slog.String("context", "к")).Debug("resolver advanced", slog.Int("row", 0))

	// Output:
	// TRACE scope created scope=станция/насосы
	// DEBUG resolver advanced context=к row=0
}
