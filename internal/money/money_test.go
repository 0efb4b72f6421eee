package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"20", "20"},
		{" 12.50 ", "12.5"},
		{"12,5", "12.5"},
		{"1 000", "1000"},
		{"-3", "-3"},
		{"0.01", "0.01"},
		{"7.500", "7.5"},
		{"999999999999.99", "999999999999.99"},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.in, err)
		}
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrNotANumber},
		{"   ", ErrNotANumber},
		{"abc", ErrNotANumber},
		{"12.3.4", ErrNotANumber},
		{"NaN", ErrNotANumber},
		{"1e", ErrNotANumber},
		{"1e-9", ErrNotANumber},
		{"1e9999", ErrNotANumber},
		{"1E2", ErrNotANumber},
		{"1e-20000000", ErrNotANumber},
		{"0.001", ErrTooPrecise},
		{"49.999", ErrTooPrecise},
		{"1000000000000", ErrOutOfRange},
		{"-1000000000000", ErrOutOfRange},
		{"0.00000000000000000000000000000001", ErrOutOfRange},
	}
	for _, c := range cases {
		if _, err := Parse(c.in); !errors.Is(err, c.want) {
			t.Errorf("Parse(%q): expected %v, got %v", c.in, c.want, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(MustParse("29.8")); got != "29.80" {
		t.Errorf("got %s", got)
	}
	if got := Format(decimal.RequireFromString("0.2055")); got != "0.21" {
		t.Errorf("got %s", got)
	}
}

func TestPercentIsExact(t *testing.T) {
	fee := Percent(MustParse("20.55"), MustParse("0.01"))
	if !fee.Equal(decimal.RequireFromString("0.2055")) {
		t.Errorf("fee = %s", fee)
	}
}

func TestMustParse_PanicsOnSubCent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("0.005")
}
