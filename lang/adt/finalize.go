package adt

// Finalizer consumes elaborated scopes. The compiler calls Accept on each
// replayed scope, which dispatches to the method for its kind; parameters,
// options, variables and contexts dispatch the same way when the finalizer
// walks into them.
//
// Parameter and option subtypes are distinguished by [ParamSymbol.Role] and
// [Option.Role].
type Finalizer interface {
	FinalizeModule(*Scope) error
	FinalizeTemplate(*Scope) error
	FinalizeEquipment(*Scope) error
	FinalizeSignal(*Scope) error
	FinalizeConnection(*Scope) error
	FinalizeContext(*ContextScope) error
	FinalizeParam(*ParamSymbol) error
	FinalizeOption(*Option) error
	FinalizeVar(*VarSymbol) error
}
