package leadform_test

import (
	"testing"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

func TestValidateArea(t *testing.T) {
	strict := leadform.StrictAreaRange

	cases := []struct {
		name   string
		value  string
		bounds *leadform.Range
		want   leadform.ErrorCode
	}{
		{name: "blank", value: "", want: leadform.CodeRequired},
		{name: "whitespace", value: "   ", want: leadform.CodeRequired},
		{name: "not a number", value: "abc", want: leadform.CodeNotPositive},
		{name: "zero", value: "0", want: leadform.CodeNotPositive},
		{name: "negative", value: "-12", want: leadform.CodeNotPositive},
		{name: "nan", value: "NaN", want: leadform.CodeNotPositive},
		{name: "positive", value: "120", want: ""},
		{name: "tiny positive without bounds", value: "0.5", want: ""},
		{name: "decimal comma", value: "120,5", want: ""},
		{name: "huge without bounds", value: "100000", want: ""},
		{name: "strict below", value: "39.9", bounds: &strict, want: leadform.CodeBelowMin},
		{name: "strict min inclusive", value: "40", bounds: &strict, want: ""},
		{name: "strict max inclusive", value: "500", bounds: &strict, want: ""},
		{name: "strict above", value: "501", bounds: &strict, want: leadform.CodeAboveMax},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := leadform.ValidateArea(tc.value, tc.bounds)
			assertCode(t, err, tc.want)
			if err != nil && err.Field != leadform.FieldSquareFootage {
				t.Fatalf("expected field %q, got %q", leadform.FieldSquareFootage, err.Field)
			}
		})
	}
}

func TestValidateArea_RangeParams(t *testing.T) {
	strict := leadform.StrictAreaRange
	err := leadform.ValidateArea("10", &strict)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Params["min"]; got != strict.Min {
		t.Fatalf("expected min param %v, got %v", strict.Min, got)
	}
	err = leadform.ValidateArea("900", &strict)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Params["max"]; got != strict.Max {
		t.Fatalf("expected max param %v, got %v", strict.Max, got)
	}
}

func TestValidateSolarValue(t *testing.T) {
	cases := []struct {
		value string
		want  leadform.ErrorCode
	}{
		{value: "", want: leadform.CodeRequired},
		{value: "lots", want: leadform.CodeNotNumber},
		{value: "Inf", want: leadform.CodeNotNumber},
		{value: "2999.99", want: leadform.CodeBelowMin},
		{value: "-5000", want: leadform.CodeBelowMin},
		{value: "3000", want: ""},
		{value: "15000", want: ""},
		{value: "100000", want: ""},
		{value: "100000.01", want: leadform.CodeAboveMax},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			assertCode(t, leadform.ValidateSolarValue(tc.value), tc.want)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		value string
		want  leadform.ErrorCode
	}{
		{value: "", want: leadform.CodeRequired},
		{value: "a@b.co", want: ""},
		{value: "ime.prezime@primjer.hr", want: ""},
		{value: "plainaddress", want: leadform.CodeInvalidEmail},
		{value: "a@b", want: leadform.CodeInvalidEmail},
		{value: "@b.co", want: leadform.CodeInvalidEmail},
		{value: "a@.co", want: leadform.CodeInvalidEmail},
		{value: "a@b.", want: leadform.CodeInvalidEmail},
		{value: "a b@c.de", want: leadform.CodeInvalidEmail},
		{value: "a@@b.co", want: leadform.CodeInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			assertCode(t, leadform.ValidateEmail(tc.value), tc.want)
		})
	}
}

func TestValidator_DefaultMessagesAreCroatian(t *testing.T) {
	cases := map[string]*leadform.FieldError{
		"Obavezno polje":               leadform.ValidateEmail(""),
		"Mora biti pozitivan broj":     leadform.ValidateArea("-1", nil),
		"Mora biti broj":               leadform.ValidateSolarValue("x"),
		"Unesite valjanu email adresu": leadform.ValidateEmail("nope"),
	}
	for want, err := range cases {
		if err == nil {
			t.Fatalf("expected error with message %q", want)
		}
		if err.Message != want {
			t.Fatalf("message mismatch: want %q, got %q", want, err.Message)
		}
	}
}

func TestValidator_LocalizedMessages(t *testing.T) {
	v := leadform.Validator{Messages: leadform.DefaultCatalog().Messages("en-US")}
	err := v.Email("")
	if err == nil || err.Message != "This field is required" {
		t.Fatalf("expected english required message, got %#v", err)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{raw: " 120 ", want: 120, ok: true},
		{raw: "120,5", want: 120.5, ok: true},
		{raw: "1.5", want: 1.5, ok: true},
		{raw: "1,000.5", ok: false},
		{raw: "", ok: false},
		{raw: "12abc", ok: false},
		{raw: "-Inf", ok: false},
		{raw: "NaN", ok: false},
		{raw: "0x1p4", ok: false},
		{raw: "1_000", ok: false},
		{raw: "0b101", ok: false},
		{raw: "1e3", want: 1000, ok: true},
		{raw: ",5", want: 0.5, ok: true},
		{raw: "-3", want: -3, ok: true},
	}
	for _, tc := range cases {
		got, ok := leadform.ParseNumber(tc.raw)
		if ok != tc.ok {
			t.Fatalf("ParseNumber(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func assertCode(t *testing.T, err *leadform.FieldError, want leadform.ErrorCode) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Fatalf("expected no error, got %s (%s)", err.Code, err.Message)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected %s error, got none", want)
	}
	if err.Code != want {
		t.Fatalf("expected code %s, got %s", want, err.Code)
	}
	if err.Message == "" {
		t.Fatalf("expected a message for code %s", err.Code)
	}
}
