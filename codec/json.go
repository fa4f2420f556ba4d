package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Sessions are small map-like structures, for which JSON is stable and
// portable. If you need a custom encoding, implement Codec and pass it
// where supported; persisted data always records the codec name so it can
// be validated on load.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// This affects newly-written sessions; existing persisted files are
// self-describing and are opened by selecting the codec by name.
var Default Codec = JSON{}
