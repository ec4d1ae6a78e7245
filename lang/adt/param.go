package adt

import (
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// ParamRole identifies a parameter by scope kind and name.
type ParamRole uint8

const (
	RoleUnknown ParamRole = iota
	RoleSignalID
	RoleSignalEquipment
	RoleSignalValue
	RoleSignalFormula
	RoleSignalDescription
	RoleSignalFormat
	RoleSignalAck
	RoleSignalPersistent
	RoleSignalUnits
	RoleConnectionID
	RoleConnectionAddress
	RoleEquipmentID
)

var paramRoleNames = [...]string{
	RoleUnknown:           "unknown",
	RoleSignalID:          "signal_id",
	RoleSignalEquipment:   "signal_equipment",
	RoleSignalValue:       "signal_value",
	RoleSignalFormula:     "signal_formula",
	RoleSignalDescription: "signal_description",
	RoleSignalFormat:      "signal_format",
	RoleSignalAck:         "signal_ack",
	RoleSignalPersistent:  "signal_persistent",
	RoleSignalUnits:       "signal_units",
	RoleConnectionID:      "connection_id",
	RoleConnectionAddress: "connection_address",
	RoleEquipmentID:       "equipment_id",
}

func (r ParamRole) String() string {
	if int(r) < len(paramRoleNames) {
		return paramRoleNames[r]
	}

	return paramRoleNames[RoleUnknown]
}

// Family returns the scope kind whose parameters include r.
func (r ParamRole) Family() Kind {
	switch {
	case r >= RoleSignalID && r <= RoleSignalUnits:
		return KindSignal
	case r == RoleConnectionID || r == RoleConnectionAddress:
		return KindConnection
	case r == RoleEquipmentID:
		return KindEquipment
	default:
		return 0
	}
}

// Parameter names allowed per scope kind.
var allowedParams = map[Kind]map[string]ParamRole{
	KindEquipment: {
		"Идентификатор": RoleEquipmentID,
	},
	KindSignal: {
		"Идентификатор": RoleSignalID,
		"Оборудование":  RoleSignalEquipment,
		"Значение":      RoleSignalValue,
		"Формула":       RoleSignalFormula,
		"Описание0":     RoleSignalDescription,
		"Описание1":     RoleSignalDescription,
		"Описание2":     RoleSignalDescription,
		"Описание3":     RoleSignalDescription,
		"Формат":        RoleSignalFormat,
		"Квитируемый":   RoleSignalAck,
		"Журналируемый": RoleSignalPersistent,
		"Единицы":       RoleSignalUnits,
	},
	KindConnection: {
		"Идентификатор": RoleConnectionID,
		"Адрес":         RoleConnectionAddress,
	},
}

// ParamRoleOf returns the role of parameter name in a scope of kind k.
func ParamRoleOf(k Kind, name string) (ParamRole, bool) {
	role, ok := allowedParams[k][name]

	return role, ok
}

// ParamSymbol is a schema-constrained parameter of a scope.
type ParamSymbol struct {
	name       string
	role       ParamRole
	spec       ast.Expr
	typ        ValueType
	value      Value
	options    []*Option
	registered map[string]bool
	strict     bool
}

func (p *ParamSymbol) Name() string       { return p.name }
func (p *ParamSymbol) Role() ParamRole    { return p.role }
func (p *ParamSymbol) Type() ValueType    { return p.typ }
func (p *ParamSymbol) Spec() ast.Expr     { return p.spec }
func (p *ParamSymbol) Value() Value       { return p.value }
func (p *ParamSymbol) IsSet() bool        { return p.value != nil }
func (p *ParamSymbol) Options() []*Option { return p.options }

// Accept calls f.FinalizeParam.
func (p *ParamSymbol) Accept(f Finalizer) error { return f.FinalizeParam(p) }

// Assign type checks v against the declared type and stores it.
func (p *ParamSymbol) Assign(v Value) error {
	if v.Type() == TypeRange && p.role != RoleSignalValue {
		return diag.Typef("range is not supported for parameter %q", p.name)
	}

	if !TypeMatch(p.typ, v.Type()) {
		return diag.Typef("parameter %q declared %s, got %s", p.name, p.typ, v.Type())
	}

	p.value = v

	return nil
}

// Register attaches an option.
//
// The option keyword must belong to the option kind of the parameter family:
// signal options for signal parameters, connection options for connection
// and equipment parameters. Options are registered once per parameter;
// equipment parameters only enforce that in strict mode.
func (p *ParamSymbol) Register(o *Option) error {
	want := token.ConnectionOpt
	if p.role.Family() == KindSignal {
		want = token.SignalOpt
	}

	if o.kind != want {
		return diag.Parameterf("invalid option %q for %s parameter %q",
			o.name, p.role.Family(), p.name)
	}

	if p.role.Family() != KindEquipment || p.strict {
		if p.registered[o.name] {
			return diag.Runtimef("option %q of parameter %q registered twice",
				o.name, p.name)
		}
	}

	if p.registered == nil {
		p.registered = make(map[string]bool)
	}

	p.registered[o.name] = true
	p.options = append(p.options, o)

	return nil
}

// OptionRole specializes an option by its keyword.
type OptionRole uint8

const (
	OptionPlain OptionRole = iota
	OptionStatus
	OptionRepresentation
	OptionLabel
	OptionSeverity
	OptionParameter
	OptionDriver
)

var optionRoles = map[string]OptionRole{
	"статус":     OptionStatus,
	"отображать": OptionRepresentation,
	"метка":      OptionLabel,
	"важность":   OptionSeverity,
	"параметр":   OptionParameter,
	"обработчик": OptionDriver,
}

var optionRoleNames = [...]string{
	OptionPlain:          "plain",
	OptionStatus:         "status",
	OptionRepresentation: "representation",
	OptionLabel:          "label",
	OptionSeverity:       "severity",
	OptionParameter:      "parameter",
	OptionDriver:         "driver",
}

func (r OptionRole) String() string {
	if int(r) < len(optionRoleNames) {
		return optionRoleNames[r]
	}

	return optionRoleNames[OptionPlain]
}

// Option is a keyword attached to a parameter, with an optional value.
type Option struct {
	name  string
	role  OptionRole
	kind  token.Kind
	value Value
}

// NewOption specializes an option keyword of token kind k into its role.
func NewOption(name string, k token.Kind, v Value) *Option {
	return &Option{name: name, role: optionRoles[name], kind: k, value: v}
}

func (o *Option) Name() string      { return o.name }
func (o *Option) Role() OptionRole  { return o.role }
func (o *Option) Token() token.Kind { return o.kind }

// Value returns the option value or nil for a bare keyword.
func (o *Option) Value() Value { return o.value }

// Accept calls f.FinalizeOption.
func (o *Option) Accept(f Finalizer) error { return f.FinalizeOption(o) }
