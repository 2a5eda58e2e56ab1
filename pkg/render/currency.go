package render

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// DisplayCurrency is the currency every estimate is quoted in.
var DisplayCurrency = currency.EUR

const (
	nbsp     = "\u00a0"
	euroSign = "€"
)

// FormatCurrency renders amount in EUR with no fraction digits, rounding half
// away from zero, using the grouping of locale. Croatian style places the
// symbol after the number ("1.235 €"); English places it before ("€1,235").
// Unknown or empty locales use hr-HR.
func FormatCurrency(amount float64, locale string) string {
	tag := displayTag(locale)
	printer := message.NewPrinter(tag)

	rounded := math.Round(amount)
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	digits := printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0)))
	symbol := printer.Sprint(currency.NarrowSymbol(DisplayCurrency))
	if symbol == DisplayCurrency.String() {
		symbol = euroSign
	}

	base, _ := tag.Base()
	if base.String() == "en" {
		if strings.HasPrefix(digits, "-") {
			return "-" + symbol + strings.TrimPrefix(digits, "-")
		}
		return symbol + digits
	}
	return digits + nbsp + symbol
}

// FormatRange renders "low - high" with both bounds formatted by
// FormatCurrency.
func FormatRange(est leadform.Estimate, locale string) string {
	return FormatCurrency(est.Low, locale) + " - " + FormatCurrency(est.High, locale)
}

func displayTag(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.MustParse(leadform.DefaultLocale)
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return language.MustParse(leadform.DefaultLocale)
	}
	return tags[0]
}
