package cnst

const (
	// LangEN is the English language code
	LangEN = "en"
	// LangFR is the French language code
	LangFR = "fr"
	// LangDefault is the default language used for user-facing messages
	LangDefault = LangFR
	// XLang is the header carrying the client's language preference
	XLang = "X-Lang"
)
