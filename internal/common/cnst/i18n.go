package cnst

const (
	LangEN      = "en"
	LangZH      = "zh"
	LangDefault = LangEN
)

const (
	// XLang is the request header (and gin context key) carrying the language
	XLang = "X-Lang"
	// CtxKeyTranslator is the gin context key for the translator
	CtxKeyTranslator = "translator"
)
