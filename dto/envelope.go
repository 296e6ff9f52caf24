package dto

// Envelope is the JSON body of every zodiac API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Outcome reports whether the API flagged the request as successful,
// with the error message it sent otherwise.
func (e *Envelope[T]) Outcome() (bool, string) { return e.Success, e.Error }

// Health is the body of the health check route.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// OKCount wraps a list in a successful envelope that also reports its size.
func OKCount[T any](data []T) Envelope[[]T] {
	n := len(data)
	return Envelope[[]T]{Success: true, Data: data, Count: &n}
}

// Failure builds an unsuccessful envelope carrying msg.
func Failure(msg string) Envelope[any] {
	return Envelope[any]{Success: false, Error: msg}
}
