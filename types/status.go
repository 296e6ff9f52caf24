package types

// StatusKind represents the lifecycle of the catalogue fetch
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusError
	StatusReady
)

// String returns the string representation of the status kind
func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Status is a StatusKind plus the message carried by StatusError.
type Status struct {
	Kind    StatusKind
	Message string
}

func Idle() Status    { return Status{Kind: StatusIdle} }
func Loading() Status { return Status{Kind: StatusLoading} }
func Ready() Status   { return Status{Kind: StatusReady} }

// Failed returns an error status carrying msg.
func Failed(msg string) Status { return Status{Kind: StatusError, Message: msg} }

func (s Status) String() string {
	if s.Kind == StatusError && s.Message != "" {
		return s.Kind.String() + ": " + s.Message
	}
	return s.Kind.String()
}
