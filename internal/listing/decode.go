package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// publishedLayouts are tried in order for the publication timestamp.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Decode reads a JSON array of listings. The raw items go through mapstructure
// so loosely typed documents (string ids, date-only timestamps) still decode.
func Decode(r io.Reader) (*Listings, error) {
	var raw []any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode listings document: %w", err)
	}

	var items []*Listing
	cfg := &mapstructure.DecoderConfig{
		Result:           &items,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       timeHook,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item == nil {
			return nil, fmt.Errorf("decode listings: null listing")
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("decode listings: duplicated id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return &Listings{Items: items}, nil
}

func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) || from.Kind() != reflect.String {
		return data, nil
	}

	return ParsePublished(data.(string))
}

// ParsePublished parses a publication timestamp in any of the accepted layouts.
func ParsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported publication date %q", s)
}
