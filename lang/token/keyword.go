package token

// keyword is the kind and canonical lexeme produced for a reserved word.
type keyword struct {
	lexeme string
	kind   Kind
}

// keywords is matched case-sensitively against complete identifiers.
var keywords = map[string]keyword{
	"оборудование": {"оборудование", ObjectClass},
	"класс_а":      {"аналог", ObjectType},
	"класс_ц":      {"цифра", ObjectType},
	"шаблон":       {"шаблон", TemplateKw},
	"контекст":     {"контекст", ContextKw},
	"соединение":   {"соединение", ConnectionKw},
	"обработчик":   {"обработчик", ConnectionOpt},
	"сигнал":       {"сигнал", SignalKw},
	"статус":       {"статус", SignalOpt},
	"важность":     {"важность", SignalOpt},
	"отображать":   {"отображать", SignalOpt},
	"метка":        {"метка", SignalOpt},
	"параметр":     {"параметр", SignalOpt},
	"входной":      {"входной", SignalDirection},
	"выходной":     {"выходной", SignalDirection},
	"аналог":       {"аналог", SignalType},
	"дискрет":      {"дискрет", SignalType},
	"использовать": {"использовать", UseKw},
	"линейно":      {"линейно", UseMethod},
	"значения":     {"значения", ValuesKw},
	"кроме":        {"кроме", ExcludeKw},
	"все":          {"все", AllKw},
	"подстановка":  {"подстановка", PutKw},
	"правило":      {"правило", RuleKw},
	"в":            {"в", InKw},
	"из":           {"из", FromKw},
	"str":          {"str", StrType},
	"int":          {"int", IntType},
	"float":        {"float", FloatType},
	"bool":         {"bool", BoolType},
	"arr":          {"ARR", ArrayType},
	"Да":           {"Да", Bool},
	"Нет":          {"Нет", Bool},
	"диапазон":     {"диапазон", RangeKw},
	"i":            {"<i>", It},
	"норма":        {"норма", SysConst},
	"авария":       {"авария", SysConst},
	"тревога":      {"тревога", SysConst},
	"привязать":    {"привязать", BindKw},
}

// Lookup maps an identifier to its keyword kind and canonical lexeme.
// Identifiers that are not reserved yield [Ident] and the word itself.
func Lookup(word string) (Kind, string) {
	if kw, ok := keywords[word]; ok {
		return kw.kind, kw.lexeme
	}

	return Ident, word
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]

	return ok
}

// BoolTrue is the lexeme of the true boolean literal.
const BoolTrue = "Да"

// BoolFalse is the lexeme of the false boolean literal.
const BoolFalse = "Нет"
