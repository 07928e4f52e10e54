package catalog

import (
	"encoding/json"
)

// mergeInto applies updates on top of a copy of current. Firestore and json
// field names are the same for every kind, so the json form is used as the
// common document shape.
func mergeInto(current Item, updates map[string]any, newItem func() Item) (Item, error) {
	doc, err := toDoc(current)
	if err != nil {
		return nil, err
	}
	for k, v := range updates {
		doc[k] = v
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	merged := newItem()
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// pick returns the named fields of item as a document patch.
func pick(item Item, fields []string) (map[string]any, error) {
	doc, err := toDoc(item)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f] = doc[f]
	}
	return out, nil
}

func toDoc(item Item) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}
