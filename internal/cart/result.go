package cart

import "fmt"

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of a cart mutation. Business-rule rejections
// (insufficient stock and the like) come back as an error-status Result,
// not as a Go error; Go errors are reserved for store/catalog failures.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

func success(format string, args ...any) Result {
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

func rejected(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}
