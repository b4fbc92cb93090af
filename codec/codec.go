package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/blueprintgo/config"
)

// ErrUnsupportedValue is returned by Marshal when a field value cannot be
// expressed in the wire format.
var ErrUnsupportedValue = errors.New("value cannot be serialized")

// Envelope kinds, one per config tree node kind.
const (
	kindNode = "node"
	kindList = "list"
	kindMap  = "map"
)

// wireConfig is the msgpack envelope of a single tree node.
type wireConfig struct {
	Kind    string                 `msgpack:"kind"`
	Target  string                 `msgpack:"target,omitempty"`
	Frozen  bool                   `msgpack:"frozen,omitempty"`
	Names   []string               `msgpack:"names,omitempty"`
	Fields  map[string]*wireValue  `msgpack:"fields,omitempty"`
	Elems   []*wireConfig          `msgpack:"elems,omitempty"`
	Entries map[string]*wireConfig `msgpack:"entries,omitempty"`
}

// wireValue is a single field value: either a nested config or a ctyjson
// value/type pair. A wireValue with neither is a nil field.
type wireValue struct {
	Config *wireConfig `msgpack:"config,omitempty"`
	Type   []byte      `msgpack:"type,omitempty"`
	Value  []byte      `msgpack:"value,omitempty"`
}

// Marshal serializes a blueprint tree to bytes.
func Marshal(cfg config.Config) ([]byte, error) {
	wire, err := encode(cfg)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(wire)
}

// Unmarshal rebuilds a blueprint tree from bytes produced by Marshal.
func Unmarshal(data []byte) (config.Config, error) {
	var wire wireConfig
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return decode(&wire)
}

// Save writes a blueprint tree to w as a single atomic encode.
func Save(w io.Writer, cfg config.Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load reads a blueprint tree from r.
func Load(r io.Reader) (config.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

func encode(cfg config.Config) (*wireConfig, error) {
	switch c := cfg.(type) {
	case *config.Node:
		wire := &wireConfig{
			Kind:   kindNode,
			Target: c.Target(),
			Frozen: c.Frozen(),
			Names:  c.Names(),
			Fields: make(map[string]*wireValue, c.Len()),
		}
		for _, name := range wire.Names {
			v, _ := c.Get(name)
			wv, err := encodeField(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			wire.Fields[name] = wv
		}
		return wire, nil

	case *config.List:
		wire := &wireConfig{Kind: kindList, Elems: make([]*wireConfig, 0, c.Len())}
		for i, e := range c.Elements() {
			child, err := encode(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			wire.Elems = append(wire.Elems, child)
		}
		return wire, nil

	case *config.Map:
		wire := &wireConfig{Kind: kindMap, Entries: make(map[string]*wireConfig, c.Len())}
		for _, key := range c.Keys() {
			e, _ := c.Get(key)
			child, err := encode(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			wire.Entries[key] = child
		}
		return wire, nil
	}
	return nil, fmt.Errorf("%w: unknown config kind %T", ErrUnsupportedValue, cfg)
}

func encodeField(v any) (*wireValue, error) {
	if v == nil {
		return &wireValue{}, nil
	}
	if c, ok := v.(config.Config); ok {
		child, err := encode(c)
		if err != nil {
			return nil, err
		}
		return &wireValue{Config: child}, nil
	}
	valueJSON, typeJSON, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	return &wireValue{Type: typeJSON, Value: valueJSON}, nil
}

func decode(wire *wireConfig) (config.Config, error) {
	switch wire.Kind {
	case kindNode:
		n := config.NewNode(wire.Target)
		for _, name := range wire.Names {
			wv, ok := wire.Fields[name]
			if !ok {
				return nil, fmt.Errorf("field %q listed but not present", name)
			}
			v, err := decodeField(wv)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			if err := n.Set(name, v); err != nil {
				return nil, err
			}
		}
		n.Freeze(wire.Frozen)
		return n, nil

	case kindList:
		elems := make([]config.Config, 0, len(wire.Elems))
		for i, child := range wire.Elems {
			e, err := decode(child)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, e)
		}
		return config.NewList(elems...)

	case kindMap:
		elems := make(map[string]config.Config, len(wire.Entries))
		for key, child := range wire.Entries {
			e, err := decode(child)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			elems[key] = e
		}
		return config.NewMap(elems)
	}
	return nil, fmt.Errorf("unknown envelope kind %q", wire.Kind)
}

func decodeField(wv *wireValue) (any, error) {
	if wv == nil {
		return nil, nil
	}
	if wv.Config != nil {
		return decode(wv.Config)
	}
	if wv.Type == nil && wv.Value == nil {
		return nil, nil
	}
	return decodeValue(wv.Value, wv.Type)
}
