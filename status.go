package gocatorlog

type (
	// Status describes the outcome of a sensor SDK operation.
	Status int32

	// StatusError is a status that encodes an error.
	StatusError struct {
		Status
	}
)

// The set of possible statuses.
const (
	StatusOk           Status = 1
	StatusFailed       Status = 0
	StatusBadParameter Status = -3
	StatusBadState     Status = -6
	StatusNotFound     Status = -7
	StatusTimeout      Status = -12
	StatusIncomplete   Status = -13
	StatusStreamError  Status = -15
	StatusNetworkError Status = -26
)

// Failed returns an error if the status is that of a failure.
func (s Status) Failed() error {
	if s == StatusOk {
		return nil
	}
	return StatusError{s}
}

// String returns a human readable version of a status.
func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusFailed:
		return "Failed"
	case StatusBadParameter:
		return "BadParameter"
	case StatusBadState:
		return "BadState"
	case StatusNotFound:
		return "NotFound"
	case StatusTimeout:
		return "Timeout"
	case StatusIncomplete:
		return "Incomplete"
	case StatusStreamError:
		return "StreamError"
	case StatusNetworkError:
		return "NetworkError"
	default:
		return "Unknown"
	}
}

// Error returns the error as a human readable string.
func (e StatusError) Error() string {
	return e.String()
}
