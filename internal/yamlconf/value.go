package yamlconf

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// nodeToCty converts a decoded YAML value into the cty value the rest of the
// project model works with. Sequences become tuples and mappings objects.
func nodeToCty(n *yaml.Node) (cty.Value, error) {
	switch n.Kind {
	case 0:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		return nodeToCty(n.Content[0])
	case yaml.AliasNode:
		return nodeToCty(n.Alias)
	case yaml.ScalarNode:
		return scalarToCty(n)
	case yaml.SequenceNode:
		items := make([]cty.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToCty(c)
			if err != nil {
				return cty.NilVal, err
			}
			items = append(items, v)
		}
		return cty.TupleVal(items), nil
	case yaml.MappingNode:
		attrs := make(map[string]cty.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return cty.NilVal, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := nodeToCty(n.Content[i+1])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key.Value] = v
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func scalarToCty(n *yaml.Node) (cty.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return cty.NullVal(cty.DynamicPseudoType), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return cty.NilVal, err
		}
		return cty.NumberIntVal(i), nil
	case "!!float":
		f, ok := new(big.Float).SetString(n.Value)
		if !ok {
			var v float64
			if err := n.Decode(&v); err != nil {
				return cty.NilVal, err
			}
			return cty.NumberFloatVal(v), nil
		}
		return cty.NumberVal(f), nil
	case "!!str":
		return cty.StringVal(n.Value), nil
	}
	return cty.NilVal, fmt.Errorf("line %d: unsupported tag %s for %s", n.Line, n.ShortTag(), strconv.Quote(n.Value))
}
