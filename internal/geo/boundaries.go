// Package geo loads the region boundary document drawn by the dashboard map.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ErrNoFeatures is returned for a document without a usable feature
var ErrNoFeatures = errors.New("boundary document has no features")

// Boundaries is a parsed FeatureCollection indexed by one feature property
type Boundaries struct {
	featureKey string
	collection *geojson.FeatureCollection
	index      map[string]*geojson.Feature
	bounds     *geom.Bounds
}

// Load reads and parses the boundary document at path
func Load(path, featureKey string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, featureKey)
}

// rawCollection lets each feature be decoded on its own, so one malformed
// feature does not reject the whole document
type rawCollection struct {
	Type     string                       `json:"type"`
	Features []map[string]json.RawMessage `json:"features"`
}

// Parse decodes a GeoJSON FeatureCollection and indexes its features by the
// featureKey property, normalized to a 2-digit code
func Parse(data []byte, featureKey string) (*Boundaries, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode boundary document: %w", err)
	}
	if raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("boundary document type %q is not a FeatureCollection", raw.Type)
	}

	b := &Boundaries{
		featureKey: featureKey,
		collection: &geojson.FeatureCollection{},
		index:      make(map[string]*geojson.Feature, len(raw.Features)),
		bounds:     geom.NewBounds(geom.XY),
	}
	for _, fields := range raw.Features {
		feature, err := decodeFeature(fields)
		if err != nil {
			continue
		}
		key := PropertyKey(feature.Properties[featureKey])
		if key == "" {
			continue
		}
		b.collection.Features = append(b.collection.Features, feature)
		if _, dup := b.index[key]; !dup {
			b.index[key] = feature
		}
		if feature.Geometry != nil {
			b.bounds.Extend(feature.Geometry)
		}
	}
	if len(b.index) == 0 {
		return nil, ErrNoFeatures
	}
	return b, nil
}

// decodeFeature hands one feature to go-geom. A numeric id is rewritten as text.
func decodeFeature(fields map[string]json.RawMessage) (*geojson.Feature, error) {
	if id, ok := fields["id"]; ok {
		var s string
		if json.Unmarshal(id, &s) != nil {
			quoted, _ := json.Marshal(strings.TrimSpace(string(id)))
			fields["id"] = quoted
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	feature := &geojson.Feature{}
	if err := json.Unmarshal(data, feature); err != nil {
		return nil, err
	}
	return feature, nil
}

// PropertyKey renders a feature property as a 2-digit region code.
// Strings and whole numbers are accepted; anything else yields "".
func PropertyKey(v any) string {
	var s string
	switch val := v.(type) {
	case string:
		s = strings.TrimSpace(val)
	case float64:
		if val != float64(int64(val)) {
			return ""
		}
		s = strconv.FormatInt(int64(val), 10)
	default:
		return ""
	}
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}

// FeatureKey is the property the features are indexed by
func (b *Boundaries) FeatureKey() string {
	return b.featureKey
}

// FeatureIDKey is the Plotly featureidkey for the indexed property
func (b *Boundaries) FeatureIDKey() string {
	return "properties." + b.featureKey
}

// Len returns the number of indexed regions
func (b *Boundaries) Len() int {
	return len(b.index)
}

// Has reports whether a region key has a feature
func (b *Boundaries) Has(key string) bool {
	_, ok := b.index[key]
	return ok
}

// Keys returns the indexed region keys in ascending order
func (b *Boundaries) Keys() []string {
	keys := make([]string, 0, len(b.index))
	for k := range b.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bounds returns the extent of every feature as [minX, minY, maxX, maxY]
func (b *Boundaries) Bounds() [4]float64 {
	if b.bounds.IsEmpty() {
		return [4]float64{}
	}
	return [4]float64{b.bounds.Min(0), b.bounds.Min(1), b.bounds.Max(0), b.bounds.Max(1)}
}

// MarshalJSON re-encodes the indexed features as a FeatureCollection
func (b *Boundaries) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.collection)
}
