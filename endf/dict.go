package endf

import (
	"encoding/json"
	"fmt"
)

// Dict is a section node. Keys are field names or, for indexed sections,
// the integer index value.
type Dict map[any]any

// Section returns the child node stored under key, creating it if absent.
func (d Dict) Section(key any) Dict {
	if child, ok := d[key].(Dict); ok {
		return child
	}
	child := Dict{}
	d[key] = child
	return child
}

// MarshalJSON renders keys with fmt.Sprint since JSON objects only allow
// string keys.
func (d Dict) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[fmt.Sprint(k)] = v
	}
	return json.Marshal(m)
}
