package plugin

import (
	"bytes"
	"fmt"

	"github.com/poiesic/launchpad/core"
	"github.com/tidwall/gjson"
)

// ParseResults decodes plugin output into results attributed to providerID.
//
// Output is either a single result object or an array of them:
//
//	[{"title": "Calculator", "subtitle": "2 + 2", "value": "4"}]
//
// title is required. value defaults to title. Any other string fields are
// kept as result metadata. Empty output yields no results.
func ParseResults(providerID string, output []byte) ([]core.Result, error) {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(output) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedOutput)
	}

	doc := gjson.ParseBytes(output)
	switch {
	case doc.IsObject():
		r, err := parseResult(providerID, doc)
		if err != nil {
			return nil, err
		}
		return []core.Result{r}, nil
	case doc.IsArray():
		var (
			results []core.Result
			err     error
		)
		i := 0
		doc.ForEach(func(_, item gjson.Result) bool {
			var r core.Result
			r, err = parseResult(providerID, item)
			if err != nil {
				err = fmt.Errorf("result %d: %w", i, err)
				return false
			}
			results = append(results, r)
			i++
			return true
		})
		if err != nil {
			return nil, err
		}
		return results, nil
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformedOutput)
	}
}

func parseResult(providerID string, item gjson.Result) (core.Result, error) {
	if !item.IsObject() {
		return core.Result{}, fmt.Errorf("%w: result is not an object", ErrMalformedOutput)
	}

	title := item.Get("title").String()
	value := item.Get("value").String()
	if value == "" {
		value = title
	}
	r := core.NewResult(providerID, title, item.Get("subtitle").String(), value)

	item.ForEach(func(key, field gjson.Result) bool {
		switch key.String() {
		case "title", "subtitle", "value":
			return true
		}
		if field.Type != gjson.String {
			return true
		}
		if r.Metadata == nil {
			r.Metadata = make(map[string]string)
		}
		r.Metadata[key.String()] = field.String()
		return true
	})

	if err := core.ValidateResult(&r); err != nil {
		return core.Result{}, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	return r, nil
}
