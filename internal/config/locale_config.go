package config

import "strings"

type LocaleConfig interface {
	GetDefaultLocale() string
	GetSupportedLocales() SupportedLocales
}

type Locales struct{}

var _ LocaleConfig = Locales{}

type SupportedLocales map[string]struct{}
type nullValue = struct{}

func (s SupportedLocales) IsSupported(locale string) bool {
	_, ok := s[locale]
	return ok
}

func (s SupportedLocales) String() string {
	var locales []string
	for k := range s {
		locales = append(locales, k)
	}
	return strings.Join(locales, ", ")
}

var supportedLocales = SupportedLocales{"tr": nullValue{}, "en": nullValue{}}

func (Locales) GetDefaultLocale() string {
	return GetEnv("DEFAULT_LOCALE", "tr")
}

func (Locales) GetSupportedLocales() SupportedLocales {
	return supportedLocales
}
