package query

import "fmt"

// Status is the lifecycle state of a Query or Mutation.
type Status int

const (
	// StatusIdle means Execute has never been called.
	StatusIdle Status = iota
	// StatusPending means an execution is in flight.
	StatusPending
	// StatusSuccess means the last execution completed successfully.
	StatusSuccess
	// StatusError means the last execution failed.
	StatusError
)

var statusNames = [...]string{"idle", "pending", "success", "error"}

// String returns the string representation of the status.
func (s Status) String() string {
	if s < StatusIdle || s > StatusError {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusIdle || s > StatusError {
		return nil, fmt.Errorf("query: invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("query: unknown status %q", text)
}
