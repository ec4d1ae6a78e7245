package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		word   string
		kind   Kind
		lexeme string
	}{
		{"оборудование", ObjectClass, "оборудование"},
		{"класс_а", ObjectType, "аналог"},
		{"класс_ц", ObjectType, "цифра"},
		{"аналог", SignalType, "аналог"},
		{"arr", ArrayType, "ARR"},
		{"i", It, "<i>"},
		{"Да", Bool, "Да"},
		{"да", Ident, "да"},
		{"pump_1", Ident, "pump_1"},
		{"параметр", SignalOpt, "параметр"},
		{"обработчик", ConnectionOpt, "обработчик"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			kind, lexeme := Lookup(tt.word)
			if kind != tt.kind {
				t.Errorf("Lookup(%q) kind = %v, want %v", tt.word, kind, tt.kind)
			}

			if lexeme != tt.lexeme {
				t.Errorf("Lookup(%q) lexeme = %q, want %q", tt.word, lexeme, tt.lexeme)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for k := Illegal; k < numKinds; k++ {
		if kindNames[k] == "" {
			t.Errorf("kind %d has no name", k)
		}
	}

	if got := Kind(250).String(); got != "Kind(250)" {
		t.Errorf("unknown kind String() = %q", got)
	}
}

func TestKindClasses(t *testing.T) {
	tests := []struct {
		kind    Kind
		builtin bool
		scalar  bool
		option  bool
	}{
		{StrType, true, true, false},
		{BoolType, true, true, false},
		{ArrayType, true, false, false},
		{Ident, false, false, false},
		{SignalOpt, false, false, true},
		{ConnectionOpt, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsBuiltinType(); got != tt.builtin {
				t.Errorf("IsBuiltinType() = %v, want %v", got, tt.builtin)
			}

			if got := tt.kind.IsScalarType(); got != tt.scalar {
				t.Errorf("IsScalarType() = %v, want %v", got, tt.scalar)
			}

			if got := tt.kind.IsOption(); got != tt.option {
				t.Errorf("IsOption() = %v, want %v", got, tt.option)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: EOF, Lexeme: "EOF"}, "EOF"},
		{Token{Kind: Semicolon, Lexeme: ";"}, ";"},
		{Token{Kind: Ident, Lexeme: "pump"}, "IDENT(pump)"},
		{Token{Kind: String, Lexeme: "a b"}, `"a b"`},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
