package codec

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// encodeValue turns a plain field value into its ctyjson value/type pair.
func encodeValue(v any) (valueJSON, typeJSON []byte, err error) {
	val, err := ctyValue(v)
	if err != nil {
		return nil, nil, err
	}
	ty := val.Type()
	typeJSON, err = ctyjson.MarshalType(ty)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	valueJSON, err = ctyjson.Marshal(val, ty)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return valueJSON, typeJSON, nil
}

// ctyValue converts a plain Go value to a cty.Value. Untyped collections
// ([]any, map[string]any) are converted element-wise into tuple and object
// values; everything else goes through gocty's implied-type conversion.
func ctyValue(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case []any:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(tv))
		for i, e := range tv {
			ev, err := ctyValue(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil

	case map[string]any:
		if len(tv) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(tv))
		for key, e := range tv {
			ev, err := ctyValue(e)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = ev
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return val, nil
}

// decodeValue reverses encodeValue back to a native Go value.
func decodeValue(valueJSON, typeJSON []byte) (any, error) {
	ty, err := ctyjson.UnmarshalType(typeJSON)
	if err != nil {
		return nil, fmt.Errorf("decode value type: %w", err)
	}
	val, err := ctyjson.Unmarshal(valueJSON, ty)
	if err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return NativeValue(val)
}

// NativeValue recursively converts a cty.Value to its most natural Go
// counterpart. Whole numbers come back as int so that templates survive a
// round-trip field-for-field.
func NativeValue(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := NativeValue(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := NativeValue(elem)
			if err != nil {
				return nil, err
			}
			goMap[key.AsString()] = native
		}
		return goMap, nil
	}

	return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
}
