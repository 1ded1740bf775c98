package milestone

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rgehrsitz/horizon/internal/domain"
)

// PanicError is a panic raised inside detection, converted to an error
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during milestone detection: %v", e.Value)
}

// safeDetect runs detect and turns a panic into a PanicError
func (d *Detector) safeDetect(ctx context.Context, in DetectionInput) (domain.DetectionResult, error) {
	return d.recovering(func() (domain.DetectionResult, error) {
		return d.detect(ctx, in)
	})
}

func (d *Detector) recovering(run func() (domain.DetectionResult, error)) (result domain.DetectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.logger().Debugf("recovered detection panic: %v\n%s", r, stack)
			result = domain.DetectionResult{}
			err = &PanicError{Value: r, Stack: stack}
		}
	}()
	return run()
}
