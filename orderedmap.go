package strimg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// OrderedMap is a map that remembers insertion order.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
	mu     sync.RWMutex
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keys:   make([]K, 0),
		values: make(map[K]V),
	}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (om *OrderedMap[K, V]) Set(key K, value V) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// Get retrieves a value by key.
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	om.mu.RLock()
	defer om.mu.RUnlock()

	val, exists := om.values[key]
	return val, exists
}

// Keys returns the keys in insertion order.
func (om *OrderedMap[K, V]) Keys() []K {
	om.mu.RLock()
	defer om.mu.RUnlock()

	return append([]K{}, om.keys...)
}

// Iterate calls f for each pair in insertion order.
func (om *OrderedMap[K, V]) Iterate(f func(key K, value V)) {
	om.mu.RLock()
	defer om.mu.RUnlock()

	for _, k := range om.keys {
		f(k, om.values[k])
	}
}

// Len returns the number of keys.
func (om *OrderedMap[K, V]) Len() int {
	om.mu.RLock()
	defer om.mu.RUnlock()

	return len(om.keys)
}

// UnmarshalJSON decodes a JSON object, keeping the order of its members.
// Only string keys are supported.
func (om *OrderedMap[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	om.mu.Lock()
	defer om.mu.Unlock()
	om.keys = om.keys[:0]
	om.values = make(map[K]V)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		key, ok := any(name).(K)
		if !ok {
			return fmt.Errorf("ordered map key type %T is not a string", key)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("value for %q: %w", name, err)
		}
		if _, exists := om.values[key]; !exists {
			om.keys = append(om.keys, key)
		}
		om.values[key] = value
	}
	_, err = dec.Token()
	return err
}
