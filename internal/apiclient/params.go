package apiclient

import (
	"fmt"
	"net/url"
)

// Params is the optional parameter mapping of a call.
type Params map[string]any

// Values converts p to query parameters. Slices become repeated keys; nil
// values are skipped.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for key, v := range p {
		switch value := v.(type) {
		case nil:
		case string:
			values.Add(key, value)
		case []string:
			for _, s := range value {
				values.Add(key, s)
			}
		case []any:
			for _, item := range value {
				values.Add(key, formatParam(item))
			}
		default:
			values.Add(key, formatParam(value))
		}
	}
	return values
}

func formatParam(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
