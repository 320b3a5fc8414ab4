package quantum

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// current is silent until a caller installs a logger with SetLogger. It is
// read from trajectory workers, so it is swapped atomically.
var current atomic.Pointer[log.Logger]

func init() {
	SetLogger(nil)
}

func logger() *log.Logger { return current.Load() }

// SetLogger routes the package's debug output to l. Passing nil restores the
// silent default. It is safe to call while simulations are running.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{Prefix: "quantum"})
	}
	current.Store(l)
}
