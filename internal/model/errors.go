package model

import "fmt"

// ErrorKind is the error taxonomy from spec §7. Every fallible operation in
// the core returns a *Fault (or wraps one) rather than an ad-hoc error string,
// so that callers — the Config Adapter's CCB abort path, the Admin Operation
// Engine's result callback, the CLI — can map a single field onto the right
// external status code without re-parsing error text.
type ErrorKind int

const (
	// KindValidation: caller-provided data is inconsistent or out of range.
	KindValidation ErrorKind = iota
	// KindPrecondition: target entity is in a state that forbids the operation.
	KindPrecondition
	// KindBusy: target is undergoing another operation.
	KindBusy
	// KindNotExist: named entity or parent not present.
	KindNotExist
	// KindExist: create conflicts with an existing, non-identical object.
	KindExist
	// KindResource: a configured limit has been reached.
	KindResource
	// KindTimeout: a downstream party did not reply within budget.
	KindTimeout
	// KindTransient: a retryable bus error.
	KindTransient
	// KindUnrecoverable: a protocol invariant was violated.
	KindUnrecoverable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindPrecondition:
		return "PRECONDITION"
	case KindBusy:
		return "BUSY"
	case KindNotExist:
		return "NOT-EXIST"
	case KindExist:
		return "EXIST"
	case KindResource:
		return "RESOURCE"
	case KindTimeout:
		return "TIMEOUT"
	case KindTransient:
		return "TRANSIENT"
	case KindUnrecoverable:
		return "UNRECOVERABLE"
	default:
		return "UNKNOWN"
	}
}

// AdminResultCode maps an ErrorKind onto the admin-operation result codes
// named in spec §4.4/§7 (INVALID-PARAM, BAD-OPERATION, TRY-AGAIN, NOT-EXIST,
// EXIST, NO-RESOURCES). Kinds with no direct admin-op analogue (Timeout,
// Transient, Unrecoverable) map to the closest generic failure code.
func (k ErrorKind) AdminResultCode() string {
	switch k {
	case KindValidation:
		return "INVALID-PARAM"
	case KindPrecondition:
		return "BAD-OPERATION"
	case KindBusy:
		return "TRY-AGAIN"
	case KindNotExist:
		return "NOT-EXIST"
	case KindExist:
		return "EXIST"
	case KindResource:
		return "NO-RESOURCES"
	default:
		return "FAILED-OPERATION"
	}
}

// Fault is the concrete error type returned throughout the core.
type Fault struct {
	Kind    ErrorKind
	Object  string // DN of the entity the fault concerns, if any
	Message string
	cause   error
}

func (f *Fault) Error() string {
	if f.Object != "" {
		return fmt.Sprintf("%s: %s: %s", f.Kind, f.Object, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.cause }

// NewFault builds a Fault.
func NewFault(kind ErrorKind, object, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, Object: object, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an ErrorKind and DN to an underlying error, preserving it for
// errors.Unwrap/errors.Is chains.
func Wrap(kind ErrorKind, object string, err error) *Fault {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Object: object, Message: err.Error(), cause: err}
}

// AsFault extracts the ErrorKind from an error, defaulting to Unrecoverable
// when the error does not carry one — any code path that hits this default is
// a bug surfaced as a protocol-invariant violation, never silently ignored.
func AsFault(err error) *Fault {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Fault); ok {
		return f
	}
	return &Fault{Kind: KindUnrecoverable, Message: err.Error(), cause: err}
}
