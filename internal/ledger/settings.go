package ledger

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyEGP Currency = "EGP"
	CurrencySAR Currency = "SAR"
)

type DateFormat string

const (
	DateFormatUS  DateFormat = "MM/DD/YYYY"
	DateFormatEU  DateFormat = "DD/MM/YYYY"
	DateFormatISO DateFormat = "YYYY-MM-DD"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are user preferences. They carry no relational invariants.
type Settings struct {
	Language      Language   `json:"language"`
	Currency      Currency   `json:"currency"`
	DateFormat    DateFormat `json:"dateFormat"`
	Notifications bool       `json:"notifications"`
	Theme         Theme      `json:"theme"`
}

// DefaultSettings is the configuration used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{
		Language:      LanguageEnglish,
		Currency:      CurrencyUSD,
		DateFormat:    DateFormatUS,
		Notifications: true,
		Theme:         ThemeLight,
	}
}

// Direction is the text direction presentation layers should render with.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// Display is the UI-facing state derived from Settings on every settings commit.
type Display struct {
	Dark      bool      `json:"dark"`
	Direction Direction `json:"direction"`
}

// DisplayFor derives the display state for s.
func DisplayFor(s Settings) Display {
	d := Display{
		Dark:      s.Theme == ThemeDark,
		Direction: DirectionLTR,
	}

	if s.Language == LanguageArabic {
		d.Direction = DirectionRTL
	}

	return d
}
