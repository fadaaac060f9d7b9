// Package audit fans authentication events out to their sinks.
package audit

import (
	"context"
	"errors"

	"primmfy/internal/entity"
)

type Recorder interface {
	Record(ctx context.Context, event entity.AuthEvent) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, event entity.AuthEvent) error

func (f RecorderFunc) Record(ctx context.Context, event entity.AuthEvent) error {
	return f(ctx, event)
}

// Nop discards events. Used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, entity.AuthEvent) error { return nil }

// Multi records to every recorder and joins their errors.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, event entity.AuthEvent) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
