package hub75

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned by load_rgb888/load_rgb565 when the supplied
// buffer's length doesn't match the panel geometry. The back buffer is left
// untouched.
var ErrSizeMismatch = errors.New("hub75: source buffer size does not match panel geometry")

// ErrShutdownTimeout names the wedged-hardware shutdown failure. No function
// in this package returns it: Deinit waits for the buffer DMA channel to
// drain without a timeout.
var ErrShutdownTimeout = errors.New("hub75: DMA ring did not drain before shutdown timeout")

// ErrNotRunning is returned by any operation that requires the driver to be
// in the Running state (load/flip/tuning calls) when it isn't.
var ErrNotRunning = errors.New("hub75: operation requires the driver to be configured and running")

// ConfigError reports an invalid Config passed to Configure, or an invalid
// value passed to SetBrightness or SetGamma. Field
// names the offending setting so callers can report something more useful
// than "bad config".
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hub75: invalid config field %q: %s", e.Field, e.Reason)
}
