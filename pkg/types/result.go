package types

// Result is returned by every storage write. Success reports whether the
// table was persisted; Data holds the full record as stored, never the
// caller's input. Error is a human-readable message for the failure case.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	cause error
}

// OK builds a successful Result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed Result wrapping err.
func Fail[T any](err error) Result[T] {
	r := Result[T]{Success: false, cause: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Err returns the underlying error of a failed Result, or nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.cause
}
