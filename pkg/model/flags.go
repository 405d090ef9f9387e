package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlagMap is a string-to-boolean map that remembers the order in which keys were first inserted.
// It decodes from a JSON object of 0/1-valued strings, numbers or booleans and encodes back into 0/1 numbers
type FlagMap struct {
	keys   []string
	values map[string]bool
}

func NewFlagMap(keys ...string) FlagMap {
	flags := FlagMap{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]bool, len(keys)),
	}
	for _, key := range keys {
		flags.Set(key, true)
	}
	return flags
}

func (flags *FlagMap) Set(key string, value bool) {
	if flags.values == nil {
		flags.values = make(map[string]bool)
	}
	if _, ok := flags.values[key]; !ok {
		flags.keys = append(flags.keys, key)
	}
	flags.values[key] = value
}

// Get returns the flag for key. Missing keys read as false
func (flags FlagMap) Get(key string) bool {
	return flags.values[key]
}

// Contains tells whether key is present, regardless of its value
func (flags FlagMap) Contains(key string) bool {
	_, ok := flags.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (flags FlagMap) Keys() []string {
	return flags.keys
}

func (flags FlagMap) Len() int {
	return len(flags.keys)
}

func (flags FlagMap) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, key := range flags.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(encodedKey)
		if flags.values[key] {
			buffer.WriteString(":1")
		} else {
			buffer.WriteString(":0")
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (flags *FlagMap) UnmarshalJSON(data []byte) error {
	*flags = NewFlagMap()

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return err
	} else if token == nil { // null
		return nil
	} else if delimiter, ok := token.(json.Delim); !ok || delimiter != '{' {
		return fmt.Errorf("flags must be a JSON object, got %v", token)
	}

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("invalid flag key %v", token)
		}

		var value any
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("invalid value for flag %q: %w", key, err)
		}
		flags.Set(key, ParseFlag(value))
	}

	_, err = decoder.Token() // Closing brace
	return err
}

// ParseFlag interprets a 0/1-valued cell. 1, "1", true and "true" are true; anything else is false
func ParseFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case json.Number:
		number, err := v.Float64()
		return err == nil && number == 1
	case string:
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "true" {
			return true
		}
		number, err := strconv.ParseFloat(v, 64)
		return err == nil && number == 1
	}
	return false
}

// Clone returns an independent copy
func (flags FlagMap) Clone() FlagMap {
	clone := NewFlagMap()
	for _, key := range flags.keys {
		clone.Set(key, flags.values[key])
	}
	return clone
}
