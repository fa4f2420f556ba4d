package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/rhythmgo/blobstore"
	"github.com/hupe1980/rhythmgo/codec"
	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/measure"
)

// Rule type tags used in serialized filter configs.
const (
	RuleTypeRange   = "range"
	RuleTypePattern = "pattern"
)

// ErrUnknownCodec is returned when a persisted session names a codec this
// build does not provide.
var ErrUnknownCodec = errors.New("unknown session codec")

// ErrMalformed is returned when persisted session bytes cannot be parsed.
var ErrMalformed = errors.New("malformed session blob")

// RuleConfig is the serializable form of one filter rule.
type RuleConfig struct {
	Type    string  `json:"type"`
	Metric  string  `json:"metric,omitempty"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Pattern string  `json:"pattern,omitempty"`
}

// FilterConfig is the serializable form of one filter application.
type FilterConfig struct {
	Combinator string       `json:"combinator"`
	Rules      []RuleConfig `json:"rules"`
}

// Session is the durable description of an analysis: the measure and the
// filters accumulated against it. The enumerated vectors and their
// metrics are not part of the session; they regenerate deterministically
// (or load from a snapshot).
type Session struct {
	Meter          measure.Meter  `json:"meter"`
	TimeMap        []int          `json:"time_map"`
	AnchorDownbeat bool           `json:"anchor_downbeat,omitempty"`
	Filters        []FilterConfig `json:"filters,omitempty"`
}

// FromSpec builds a session describing the given spec, with no filters.
func FromSpec(spec *measure.Spec) *Session {
	return &Session{
		Meter:          spec.Meter(),
		TimeMap:        spec.TimeMap(),
		AnchorDownbeat: spec.AnchorDownbeat(),
	}
}

// Spec reconstructs the measure spec the session describes.
func (s *Session) Spec() (*measure.Spec, error) {
	var optFns []measure.SpecOption
	if s.AnchorDownbeat {
		optFns = append(optFns, measure.WithAnchorDownbeat())
	}
	return measure.New(s.Meter, s.TimeMap, optFns...)
}

// AddFilter records a filter application in serializable form. Rules the
// session cannot represent fail here rather than at save time.
func (s *Session) AddFilter(f *filter.Filter) error {
	cfg := FilterConfig{Combinator: f.Combinator().String()}
	for _, r := range f.Rules() {
		switch rule := r.(type) {
		case *filter.RangeRule:
			cfg.Rules = append(cfg.Rules, RuleConfig{
				Type:   RuleTypeRange,
				Metric: rule.Kind().String(),
				Min:    rule.Min(),
				Max:    rule.Max(),
			})
		case *filter.PatternRule:
			cfg.Rules = append(cfg.Rules, RuleConfig{
				Type:    RuleTypePattern,
				Pattern: rule.Pattern(),
			})
		default:
			return fmt.Errorf("cannot serialize filter rule %q", r.Name())
		}
	}
	s.Filters = append(s.Filters, cfg)
	return nil
}

// BuildFilters reconstructs the session's filters against the given spec.
// Rule validation runs through the regular filter constructors, so a
// session written against a different measure surfaces the usual filter
// construction errors.
func (s *Session) BuildFilters(spec *measure.Spec) ([]*filter.Filter, error) {
	out := make([]*filter.Filter, 0, len(s.Filters))
	for _, cfg := range s.Filters {
		combinator := filter.And
		if cfg.Combinator == filter.Or.String() {
			combinator = filter.Or
		}

		rules := make([]filter.Rule, 0, len(cfg.Rules))
		for _, rc := range cfg.Rules {
			switch rc.Type {
			case RuleTypeRange:
				rule, err := filter.NewRange(rc.Metric, rc.Min, rc.Max)
				if err != nil {
					return nil, err
				}
				rules = append(rules, rule)
			case RuleTypePattern:
				rule, err := filter.NewPattern(rc.Pattern, spec)
				if err != nil {
					return nil, err
				}
				rules = append(rules, rule)
			default:
				return nil, fmt.Errorf("%w: unknown rule type %q", ErrMalformed, rc.Type)
			}
		}
		out = append(out, filter.New(combinator, rules...))
	}
	return out, nil
}

// Session blob layout: magic, format version, codec name, codec payload.
var sessionMagic = [4]byte{'R', 'G', 'S', 'E'}

const sessionVersion = 1

// Save writes the session to the store under the given name. The codec
// name is recorded in the header; pass nil to use codec.Default.
func Save(ctx context.Context, store blobstore.BlobStore, name string, s *Session, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	payload, err := c.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	codecName := c.Name()
	if len(codecName) > 255 {
		return fmt.Errorf("codec name %q too long", codecName)
	}

	buf := make([]byte, 0, len(sessionMagic)+2+len(codecName)+len(payload))
	buf = append(buf, sessionMagic[:]...)
	buf = append(buf, sessionVersion, byte(len(codecName)))
	buf = append(buf, codecName...)
	buf = append(buf, payload...)

	return store.Put(ctx, name, buf)
}

// Load reads a session previously written by Save. The codec is selected
// by the name recorded in the blob header.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Session, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	if len(data) < len(sessionMagic)+2 || [4]byte(data[:4]) != sessionMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if data[4] != sessionVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, data[4])
	}
	nameLen := int(data[5])
	if len(data) < 6+nameLen {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	codecName := string(data[6 : 6+nameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	var s Session
	if err := c.Unmarshal(data[6+nameLen:], &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &s, nil
}
