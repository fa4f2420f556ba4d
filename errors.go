package rhythmgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rhythmgo/blobstore"
	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/rhythm"
)

var (
	// ErrConfiguration is returned when a measure spec is invalid.
	// Raised before any enumeration starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrResourceLimit is returned when the pattern space exceeds the
	// enumeration ceiling or the memory budget. Nothing is materialized
	// when this is returned.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrFilterSpec is returned when a filter references an unknown
	// metric or carries a malformed pattern. Raised at filter
	// construction, never mid-evaluation.
	ErrFilterSpec = errors.New("invalid filter spec")

	// ErrNotFound is returned when a session or snapshot blob does not exist.
	ErrNotFound = errors.New("not found")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var is *measure.ErrInvalidSpec
	if errors.As(err, &is) {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	var le *rhythm.ErrLimitExceeded
	if errors.As(err, &le) {
		return fmt.Errorf("%w: %w", ErrResourceLimit, err)
	}

	var um *filter.ErrUnknownMetric
	if errors.As(err, &um) {
		return fmt.Errorf("%w: %w", ErrFilterSpec, err)
	}
	var ip *filter.ErrInvalidPattern
	if errors.As(err, &ip) {
		return fmt.Errorf("%w: %w", ErrFilterSpec, err)
	}

	return err
}
