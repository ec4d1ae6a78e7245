// Package adt implements the abstract data tables built during elaboration:
// scopes with their symbol and parameter tables, the contexts owned by
// templates, and the registry that owns every scope.
//
// Lookup walks from a scope through its bound context, the contexts it owns
// (templates only) and then its enclosing scopes. Values read through
// references and placeholders are resolved at read time, so a scope
// replayed once per data row sees the current row.
package adt
