// Package harvest retrieves search result pages and turns them into an
// ordered collection of items.
package harvest

import (
	"encoding/json"
	"errors"
)

// Item represents one harvested search result.
type Item struct {
	Name string
	URL  string

	// Description is empty when the source record has none.
	Description string
}

// urlFields are the record keys consulted for the item link, in order.
// The second key is only used when the first is absent.
var urlFields = []string{"html_url", "url"}

// DecodePage parses a raw page response and decodes every record in its
// items array. Any malformed record fails the whole page.
func DecodePage(page int, body []byte) ([]Item, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, parseError(page, "decode response body", err)
	}

	raw, ok := payload["items"]
	if !ok {
		return nil, parseError(page, "", ErrMissingItems)
	}
	records, ok := raw.([]any)
	if !ok {
		return nil, parseError(page, "items is not an array", ErrMissingItems)
	}

	items := make([]Item, 0, len(records))
	for i, record := range records {
		item, err := DecodeItem(record)
		if err != nil {
			var herr *Error
			if errors.As(err, &herr) {
				herr.Page = page
				herr.Index = i
			}
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// DecodeItem converts one raw record into an Item, validating that name and
// url are present non-empty strings.
func DecodeItem(raw any) (Item, error) {
	record, ok := raw.(map[string]any)
	if !ok {
		return Item{}, fieldError("", "record is not an object")
	}

	name, err := requiredString(record, "name")
	if err != nil {
		return Item{}, err
	}

	urlKey := urlFields[0]
	if _, present := record[urlKey]; !present {
		urlKey = urlFields[1]
	}
	link, err := requiredString(record, urlKey)
	if err != nil {
		return Item{}, err
	}

	description, _ := record["description"].(string)

	return Item{
		Name:        name,
		URL:         link,
		Description: description,
	}, nil
}

func requiredString(record map[string]any, key string) (string, error) {
	v, ok := record[key]
	if !ok || v == nil {
		return "", fieldError(key, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", fieldError(key, "not a string")
	}
	if s == "" {
		return "", fieldError(key, "empty")
	}
	return s, nil
}
