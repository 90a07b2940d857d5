package flow

import "strings"

// flushErrors wraps errors that might occur when multiple stages are
// flushed during shutdown.
type flushErrors []error

func (e flushErrors) Error() string {
	s := []string{}
	for _, fe := range e {
		s = append(s, fe.Error())
	}
	return strings.Join(s, ",")
}

// ret returns untyped nil if the error list is empty.
func (e flushErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}
