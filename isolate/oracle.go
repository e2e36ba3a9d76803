package isolate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/MegaShinySnivy/mc-packer/observability"
	"github.com/MegaShinySnivy/mc-packer/vfs"
)

// ErrNoVerdict indicates a host application run that produced neither a
// reproduction nor a clean result: the command failed and no log carried the
// signature. Conflating this with "did not reproduce" would corrupt the
// bisection, so it is always surfaced as an error.
var ErrNoVerdict = errors.New("run produced no verdict")

// ExecOracle runs the host application as a subprocess and scans its log
// files for the target error signature.
type ExecOracle struct {
	// Command is the host launch command, argv style.
	Command []string

	// Instance is the instance root; the command runs with it as working
	// directory and logs are read from LogsDir beneath it.
	Instance *vfs.RealDir

	// LogsDir is the log directory name within the instance, usually "logs".
	LogsDir string

	// LogFiles are the candidate log file names, scanned in order.
	LogFiles []string

	// Signature is the error text to search for.
	Signature string

	Log observability.Logger
}

// Run implements Oracle. The command's own output is discarded; the verdict
// comes from the log files alone. A command failure with no signature in any
// log is ErrNoVerdict; a failure with the signature present still counts as
// a reproduction, since crashing is how the target error usually presents.
func (o *ExecOracle) Run(ctx context.Context) (bool, error) {
	if len(o.Command) == 0 {
		return false, fmt.Errorf("%w: no run command configured", ErrNoVerdict)
	}

	log := o.Log
	if log == nil {
		log = observability.NewNullLogger()
	}

	cmd := exec.CommandContext(ctx, o.Command[0], o.Command[1:]...)
	cmd.Dir = o.Instance.Path()

	start := time.Now()
	runErr := cmd.Run()
	observability.OracleRunDuration.Observe(time.Since(start).Seconds())

	if ctx.Err() != nil {
		observability.OracleRunsTotal.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("%w: %v", ErrNoVerdict, ctx.Err())
	}

	found, scanned := o.scanLogs()
	switch {
	case found:
		observability.OracleRunsTotal.WithLabelValues("reproduced").Inc()
		log.Debug("Signature found in {File}", scanned)
		return true, nil
	case runErr != nil:
		observability.OracleRunsTotal.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("%w: command failed (%v) and signature absent from logs", ErrNoVerdict, runErr)
	default:
		observability.OracleRunsTotal.WithLabelValues("clean").Inc()
		return false, nil
	}
}

// scanLogs searches the candidate log files for the signature, returning the
// first file that contains it.
func (o *ExecOracle) scanLogs() (bool, string) {
	logs := o.Instance.Sub(o.LogsDir)
	for _, name := range o.LogFiles {
		if !logs.Has(name) {
			continue
		}
		data, err := vfs.ReadAll(logs.File(name))
		if err != nil {
			continue
		}
		if bytes.Contains(data, []byte(o.Signature)) {
			return true, name
		}
	}
	return false, ""
}
