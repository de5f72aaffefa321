// Package ruleset is a minimal declarative YAML loader for registering
// named boolean expressions into an atree.ATree, in the spirit of the
// teacher's internal/compiler SIGMA-rule YAML ingestion but scoped to this
// engine's much smaller, fully-specified predicate/combinator set. It is
// not a general expression DSL: there is no operator-precedence text
// grammar, only a fixed YAML shape.
package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/atree-go/atree"
	atreeerrors "github.com/atree-go/atree/pkg/errors"
)

type document struct {
	Expressions map[string]exprNode `yaml:"expressions"`
}

type exprNode struct {
	And []exprNode `yaml:"and"`
	Or  []exprNode `yaml:"or"`
	Not *exprNode  `yaml:"not"`

	Equals    *leafSpec    `yaml:"equals"`
	NotEquals *leafSpec    `yaml:"not_equals"`
	Gt        *leafSpec    `yaml:"gt"`
	Gte       *leafSpec    `yaml:"gte"`
	Lt        *leafSpec    `yaml:"lt"`
	Lte       *leafSpec    `yaml:"lte"`
	Between   *betweenSpec `yaml:"between"`
	In        *setSpec     `yaml:"in"`
	NotIn     *setSpec     `yaml:"not_in"`
}

type leafSpec struct {
	Field string      `yaml:"field"`
	Value interface{} `yaml:"value"`
}

type betweenSpec struct {
	Field string      `yaml:"field"`
	Lower interface{} `yaml:"lower"`
	Upper interface{} `yaml:"upper"`
}

type setSpec struct {
	Field  string        `yaml:"field"`
	Values []interface{} `yaml:"values"`
}

// Load decodes yamlDoc, builds a Draft for each named expression, inserts
// it into tree, and registers every leaf predicate encountered against
// field in store. The returned map associates each expression name with
// its canonical root id -- per atree's interning semantics, two expression
// names may map to the same id if their expressions are structurally
// identical.
func Load(yamlDoc string, tree *atree.ATree, store *atree.PredicateStore) (map[string]uint64, error) {
	doc, err := atreeerrors.ToGoTuple(atreeerrors.Try(decode(yamlDoc)))
	if err != nil {
		return nil, err
	}

	roots := make(map[string]uint64, len(doc.Expressions))
	for name, node := range doc.Expressions {
		draft, err := buildDraft(node, store)
		if err != nil {
			return nil, fmt.Errorf("expression %q: %w", name, err)
		}
		if draft == nil {
			return nil, atreeerrors.NewEmptyExpression(name)
		}
		n := tree.Insert(draft)
		roots[name] = n.ID
	}
	return roots, nil
}

func decode(yamlDoc string) (document, error) {
	var doc document
	if err := yaml.Unmarshal([]byte(yamlDoc), &doc); err != nil {
		return document{}, atreeerrors.NewYAMLDecode(err)
	}
	return doc, nil
}

func buildDraft(node exprNode, store *atree.PredicateStore) (*atree.Draft, error) {
	switch {
	case len(node.And) > 0:
		return buildCombinator(node.And, atree.AllOf, store)
	case len(node.Or) > 0:
		return buildCombinator(node.Or, atree.AnyOf, store)
	case node.Not != nil:
		return buildNot(*node.Not, store)
	default:
		pred, field, err := buildLeafPredicate(node)
		if err != nil {
			return nil, err
		}
		if pred == nil {
			return nil, nil
		}
		store.Add(field, pred)
		return atree.Leaf(pred), nil
	}
}

func buildCombinator(children []exprNode, combine func(...*atree.Draft) *atree.Draft, store *atree.PredicateStore) (*atree.Draft, error) {
	drafts := make([]*atree.Draft, 0, len(children))
	for _, c := range children {
		d, err := buildDraft(c, store)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, atreeerrors.NewBadOperand("and/or child has no recognized operator")
		}
		drafts = append(drafts, d)
	}
	return combine(drafts...), nil
}

// buildNot only supports negating a single leaf predicate, not an arbitrary
// nested group: the DAG's Inner node kind only folds And/Or (see node.go),
// so a "not" over a compound sub-expression has no direct node-level
// representation and would require De Morgan expansion this loader does
// not attempt.
func buildNot(child exprNode, store *atree.PredicateStore) (*atree.Draft, error) {
	if len(child.And) > 0 || len(child.Or) > 0 || child.Not != nil {
		return nil, atreeerrors.NewBadOperand("not: only a single leaf predicate can be negated, not a nested group")
	}
	pred, field, err := buildLeafPredicate(child)
	if err != nil {
		return nil, err
	}
	if pred == nil {
		return nil, atreeerrors.NewBadOperand("not: child has no recognized operator")
	}
	negated := atree.Not(pred)
	store.Add(field, negated)
	return atree.Leaf(negated), nil
}

func buildLeafPredicate(node exprNode) (atree.Predicate, string, error) {
	switch {
	case node.Equals != nil:
		v, err := valueFromYAML(node.Equals.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.Equal(v), node.Equals.Field, nil
	case node.NotEquals != nil:
		v, err := valueFromYAML(node.NotEquals.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.NotEqual(v), node.NotEquals.Field, nil
	case node.Gt != nil:
		v, err := valueFromYAML(node.Gt.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.Greater(v), node.Gt.Field, nil
	case node.Gte != nil:
		v, err := valueFromYAML(node.Gte.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.GreaterEqual(v), node.Gte.Field, nil
	case node.Lt != nil:
		v, err := valueFromYAML(node.Lt.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.Less(v), node.Lt.Field, nil
	case node.Lte != nil:
		v, err := valueFromYAML(node.Lte.Value)
		if err != nil {
			return nil, "", err
		}
		return atree.LessEqual(v), node.Lte.Field, nil
	case node.Between != nil:
		lo, err := valueFromYAML(node.Between.Lower)
		if err != nil {
			return nil, "", err
		}
		hi, err := valueFromYAML(node.Between.Upper)
		if err != nil {
			return nil, "", err
		}
		return atree.Between(lo, hi), node.Between.Field, nil
	case node.In != nil:
		values, err := valuesFromYAML(node.In.Values)
		if err != nil {
			return nil, "", err
		}
		return atree.ElementOf(values...), node.In.Field, nil
	case node.NotIn != nil:
		values, err := valuesFromYAML(node.NotIn.Values)
		if err != nil {
			return nil, "", err
		}
		return atree.NotElementOf(values...), node.NotIn.Field, nil
	default:
		return nil, "", nil
	}
}

func valuesFromYAML(raw []interface{}) ([]atree.Value, error) {
	out := make([]atree.Value, 0, len(raw))
	for _, r := range raw {
		v, err := valueFromYAML(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func valueFromYAML(raw interface{}) (atree.Value, error) {
	switch v := raw.(type) {
	case int:
		return atree.IntValue(int64(v)), nil
	case int64:
		return atree.IntValue(v), nil
	case float64:
		return atree.DoubleValue(v), nil
	case string:
		return atree.StringValue(v), nil
	case bool:
		return atree.BoolValue(v), nil
	default:
		return atree.Value{}, atreeerrors.NewBadOperand(fmt.Sprintf("unsupported operand type %T", raw))
	}
}
