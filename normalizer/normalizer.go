// Package normalizer rewrites a parsed document into its canonical form.
//
// Every list whose order carries no meaning (selections, arguments,
// directives, variable definitions, list literal elements and the
// definitions themselves) is reordered by a fixed case-insensitive key.
// Object literal fields keep their source order. The rewrite happens in
// place: no node is created or dropped.
package normalizer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFieldArgumentValues makes the normalizer canonicalize the values of
// field arguments too, not only their order. Off by default.
func WithFieldArgumentValues() Option {
	return func(n *Normalizer) {
		n.fieldArgumentValues = true
	}
}

// Normalizer canonicalizes documents. The zero value is ready to use.
type Normalizer struct {
	fieldArgumentValues bool
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// NormalizeDocument canonicalizes doc in place with the default options.
func NormalizeDocument(doc *ast.Document) {
	defaultNormalizer.NormalizeDocument(doc)
}

// NormalizeDocument canonicalizes doc in place.
func (n *Normalizer) NormalizeDocument(doc *ast.Document) {
	if doc == nil {
		return
	}
	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.OperationDefinition:
			n.normalizeSelectionSet(def.SelectionSet)
			if !def.Shorthand {
				n.normalizeDirectives(def.Directives)
				n.normalizeVariableDefinitions(def.VariableDefinitions)
			}
		case *ast.FragmentDefinition:
			n.normalizeSelectionSet(def.SelectionSet)
			n.normalizeDirectives(def.Directives)
		}
	}
	sortStableByKey(doc.Definitions, definitionKey)
}

func (n *Normalizer) normalizeSelectionSet(ss *ast.SelectionSet) {
	if ss == nil {
		return
	}
	for _, sel := range ss.Selections {
		switch sel := sel.(type) {
		case *ast.Field:
			n.normalizeDirectives(sel.Directives)
			n.normalizeSelectionSet(sel.SelectionSet)
			if n.fieldArgumentValues {
				for _, arg := range sel.Arguments {
					n.normalizeValue(arg.Value)
				}
			}
			sortStableByKey(sel.Arguments, argumentKey)
		case *ast.FragmentSpread:
			n.normalizeDirectives(sel.Directives)
		case *ast.InlineFragment:
			n.normalizeSelectionSet(sel.SelectionSet)
			n.normalizeDirectives(sel.Directives)
		}
	}
	sortStableByKey(ss.Selections, selectionKey)
}

func (n *Normalizer) normalizeDirectives(directives []*ast.Directive) {
	for _, d := range directives {
		for _, arg := range d.Arguments {
			n.normalizeValue(arg.Value)
		}
		sortStableByKey(d.Arguments, argumentKey)
	}
	sortStableByKey(directives, func(d *ast.Directive) sortKey {
		return sortKey{name: strings.ToLower(d.Name)}
	})
}

func (n *Normalizer) normalizeVariableDefinitions(defs []*ast.VariableDefinition) {
	for _, def := range defs {
		if def.DefaultValue != nil {
			n.normalizeValue(def.DefaultValue)
		}
		n.normalizeDirectives(def.Directives)
	}
	sortStableByKey(defs, func(def *ast.VariableDefinition) sortKey {
		return sortKey{name: strings.ToLower(def.Variable)}
	})
}

func (n *Normalizer) normalizeValue(v *ast.Value) {
	if v == nil {
		return
	}
	switch v.Kind {
	case ast.ListValue:
		for _, elem := range v.List {
			n.normalizeValue(elem)
		}
		sortStableByKey(v.List, valueKey)
	case ast.ObjectValue:
		for _, field := range v.ObjectFields {
			n.normalizeValue(field.Value)
		}
	}
}

// sortKey orders first by rank, then by the case-folded name.
type sortKey struct {
	rank int
	name string
}

func (k sortKey) compare(o sortKey) int {
	if c := cmp.Compare(k.rank, o.rank); c != 0 {
		return c
	}
	return strings.Compare(k.name, o.name)
}

// sortStableByKey sorts items by key, computing each key once.
func sortStableByKey[T any](items []T, key func(T) sortKey) {
	if len(items) < 2 {
		return
	}
	type keyed struct {
		key  sortKey
		item T
	}
	tmp := make([]keyed, len(items))
	for i, item := range items {
		tmp[i] = keyed{key: key(item), item: item}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return a.key.compare(b.key)
	})
	for i := range tmp {
		items[i] = tmp[i].item
	}
}

const (
	rankShorthand = iota
	rankQuery
	rankMutation
	rankSubscription
	rankFragment
)

func definitionKey(def ast.Definition) sortKey {
	switch def := def.(type) {
	case *ast.OperationDefinition:
		if def.Shorthand {
			return sortKey{rank: rankShorthand}
		}
		rank := rankQuery
		switch def.Operation {
		case ast.Mutation:
			rank = rankMutation
		case ast.Subscription:
			rank = rankSubscription
		}
		return sortKey{rank: rank, name: strings.ToLower(def.Name)}
	case *ast.FragmentDefinition:
		return sortKey{rank: rankFragment, name: strings.ToLower(def.Name)}
	}
	return sortKey{}
}

const (
	rankField = iota
	rankFragmentSpread
	rankInlineFragment
)

func selectionKey(sel ast.Selection) sortKey {
	switch sel := sel.(type) {
	case *ast.Field:
		return sortKey{rank: rankField, name: strings.ToLower(sel.Name)}
	case *ast.FragmentSpread:
		return sortKey{rank: rankFragmentSpread, name: strings.ToLower(sel.Name)}
	case *ast.InlineFragment:
		return sortKey{rank: rankInlineFragment, name: strings.ToLower(sel.TypeCondition)}
	}
	return sortKey{}
}

func argumentKey(arg *ast.Argument) sortKey {
	return sortKey{name: strings.ToLower(arg.Name)}
}
