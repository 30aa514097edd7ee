package util

import (
	"time"

	"github.com/primetalk/goio/io"
)

// Task runs fn synchronously, optionally bounded by a timeout.
type Task[T any] struct {
	fn      func() (T, error)
	timeout *time.Duration
	onError func(error)
}

func NewTask[T any](fn func() (T, error)) *Task[T] {
	return &Task[T]{fn: fn}
}

func (t *Task[T]) WithTimeout(timeout time.Duration) *Task[T] {
	t.timeout = &timeout
	return t
}

func (t *Task[T]) OnError(fn func(error)) *Task[T] {
	t.onError = fn
	return t
}

func (t *Task[T]) Run() (T, error) {
	bg := io.Eval(t.fn)
	if t.timeout != nil {
		bg = io.WithTimeout[T](*t.timeout)(bg)
	}
	result := io.RunSync(bg)
	if result.Error != nil && t.onError != nil {
		t.onError(result.Error)
	}
	return result.Value, result.Error
}
