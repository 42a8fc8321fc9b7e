package resolve

import (
	"git.home.luguber.info/inful/pagebuilder/internal/foundation"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
)

// Resolver resolves canonical fields on records using one AliasTable.
type Resolver struct {
	table *AliasTable
}

// NewResolver creates a Resolver. A nil table means DefaultAliasTable.
func NewResolver(table *AliasTable) *Resolver {
	if table == nil {
		table = DefaultAliasTable()
	}
	return &Resolver{table: table}
}

// Table returns the alias table in use.
func (r *Resolver) Table() *AliasTable {
	return r.table
}

// Resolve returns the first present value for field: the canonical key, then
// each alias in order, then the nested fallback. Values are never merged.
func (r *Resolver) Resolve(rec record.Record, field Field) foundation.Option[any] {
	if rec == nil {
		return foundation.None[any]()
	}
	if v, ok := rec[string(field)]; ok && IsPresent(v) {
		return foundation.Some(v)
	}

	rule, ok := r.table.rules[field]
	if !ok {
		return foundation.None[any]()
	}
	for _, alias := range rule.Aliases {
		if v, ok := rec[alias]; ok && IsPresent(v) {
			return foundation.Some(v)
		}
	}

	if rule.Nested == nil {
		return foundation.None[any]()
	}
	for _, container := range rule.Nested.Containers {
		nested, ok := rec[container].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range rule.Nested.Keys {
			if v, ok := nested[key]; ok && IsPresent(v) {
				return foundation.Some(v)
			}
		}
	}
	return foundation.None[any]()
}

// String resolves field and renders it as a single string fact.
// Lists and plain mappings are not facts and yield "".
func (r *Resolver) String(rec record.Record, field Field) string {
	v, ok := r.Resolve(rec, field).Get()
	if !ok {
		return ""
	}
	return FirstNonEmpty(v)
}

// List resolves field and renders it as a list of strings.
func (r *Resolver) List(rec record.Record, field Field) []string {
	v, ok := r.Resolve(rec, field).Get()
	if !ok {
		return nil
	}
	return AsList(v)
}

// Number resolves field and returns it when it is a real number.
// Numeric-looking strings do not count.
func (r *Resolver) Number(rec record.Record, field Field) (float64, bool) {
	v, ok := r.Resolve(rec, field).Get()
	if !ok {
		return 0, false
	}
	return Numeric(v)
}
