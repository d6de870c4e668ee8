package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"

	"amfcore/internal/model"
)

// ExplainFault renders a *model.Fault the way an operator wants to see an
// admin operation's failure: the spec §7 result code, the offending DN and
// a colorized one-line summary, instead of a bare Go error string. Mirrors
// the teacher's ConnectionError/AuthRequiredError classification in
// internal/cli/errors.go, adapted from "what connection problem is this" to
// "what admin-op result code is this."
func ExplainFault(err error) string {
	if err == nil {
		return ""
	}
	f := model.AsFault(err)
	code := text.Colors{text.FgHiRed, text.Bold}.Sprint(f.Kind.AdminResultCode())
	if f.Object != "" {
		return fmt.Sprintf("%s %s: %s", code, f.Object, f.Message)
	}
	return fmt.Sprintf("%s: %s", code, f.Message)
}

// UsageError marks an error as caller/flag misuse (bad --type, bad --op,
// malformed DN) rather than an admin-op failure, so cmd/root.go can map it to
// a distinct exit code without inspecting error text.
type UsageError struct{ Err error }

func (e UsageError) Error() string { return e.Err.Error() }
func (e UsageError) Unwrap() error { return e.Err }

// ExitCode maps a fault's ErrorKind onto a process exit code, grouping by
// whether a retry is plausible (BUSY/TIMEOUT/TRANSIENT: 75, EX_TEMPFAIL-style)
// versus a caller mistake (VALIDATION/NOT-EXIST/EXIST: 65, EX_DATAERR-style)
// versus everything else (1).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch model.AsFault(err).Kind {
	case model.KindBusy, model.KindTimeout, model.KindTransient:
		return 75
	case model.KindValidation, model.KindNotExist, model.KindExist:
		return 65
	default:
		return 1
	}
}
