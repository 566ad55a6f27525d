package schema

import (
	"fmt"

	"github.com/arloliu/ctrbin/errs"
)

// Strategy names one of the closed set of custom layouts.
type Strategy uint8

const (
	// StrategyTransformBlock is a flag word selecting optional sub-streams.
	StrategyTransformBlock Strategy = iota + 1
	// StrategyIndexBuffer is an index buffer whose element width is chosen by content.
	StrategyIndexBuffer
	// StrategyCurve is a quantized keyframe group.
	StrategyCurve
	// StrategyRawBlob is a length-prefixed payload written into a raw-data section.
	StrategyRawBlob
	// StrategyComputed recomputes derived fields before the default layout runs.
	StrategyComputed
)

func (s Strategy) String() string {
	switch s {
	case StrategyTransformBlock:
		return "TransformBlock"
	case StrategyIndexBuffer:
		return "IndexBuffer"
	case StrategyCurve:
		return "Curve"
	case StrategyRawBlob:
		return "RawBlob"
	case StrategyComputed:
		return "Computed"
	default:
		return "Unknown"
	}
}

// Valid reports whether s belongs to the closed strategy set.
func (s Strategy) Valid() bool {
	return s >= StrategyTransformBlock && s <= StrategyComputed
}

// CustomLayout is implemented by records that override the default codec.
//
// Decoding runs the declared fields first and then DecodeLayout, so a
// custom layout can finish what the schema started. Encoding runs
// EncodeLayout first; when it reports handled the declared fields are
// skipped, otherwise they are written as usual.
type CustomLayout interface {
	Record
	Strategy() Strategy
	DecodeLayout(d *Decoder) error
	EncodeLayout(e *Encoder) (handled bool, err error)
}

func checkStrategy(r CustomLayout) error {
	if s := r.Strategy(); !s.Valid() {
		return fmt.Errorf("%T: custom layout strategy %d: %w", r, s, errs.ErrMalformedRecord)
	}

	return nil
}
