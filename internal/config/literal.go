package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ErrUnsupportedValue is returned for values with no Python literal form.
var ErrUnsupportedValue = errors.New("value has no Python literal form")

// PythonLiteral renders v as Python source. Objects and maps become dicts
// with sorted keys, lists, sets and tuples become lists.
func PythonLiteral(v cty.Value) (string, error) {
	if v.IsNull() {
		return "None", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("%w: unknown value", ErrUnsupportedValue)
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return strconv.Quote(v.AsString()), nil
	case ty == cty.Bool:
		if v.True() {
			return "True", nil
		}
		return "False", nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String(), nil
		}
		return bf.Text('g', -1), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		var items []string
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := PythonLiteral(elem)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case ty.IsMapType() || ty.IsObjectType():
		m := v.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := PythonLiteral(m[k])
			if err != nil {
				return "", err
			}
			items = append(items, strconv.Quote(k)+": "+s)
		}
		return "{" + strings.Join(items, ", ") + "}", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedValue, ty.FriendlyName())
}
