package refid

import (
	"strconv"
	"strings"
	"testing"
)

func TestNew_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := New("INVOICE")
		if !strings.HasPrefix(code, "INVOICE#") {
			t.Fatalf("expected INVOICE# prefix, got %s", code)
		}
		suffix := strings.TrimPrefix(code, "INVOICE#")
		if len(suffix) != 4 {
			t.Fatalf("expected 4-digit suffix, got %s", code)
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			t.Fatalf("suffix not numeric: %s", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("suffix out of range: %d", n)
		}
	}
}

func TestNewInvoice(t *testing.T) {
	code := NewInvoice()
	if !strings.HasPrefix(code, "INVOICE#") {
		t.Errorf("expected INVOICE# prefix, got %s", code)
	}
	if !Valid(code) {
		t.Errorf("expected %s to be valid", code)
	}
}

func TestNewReceipt(t *testing.T) {
	code := NewReceipt()
	if !strings.HasPrefix(code, "RECEIPT#") {
		t.Errorf("expected RECEIPT# prefix, got %s", code)
	}
	if !Valid(code) {
		t.Errorf("expected %s to be valid", code)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"INVOICE#1234":  true,
		"RECEIPT#9999":  true,
		"INVOICE#123":   false,
		"INVOICE#12345": false,
		"invoice#1234":  false,
		"INVOICE1234":   false,
		"":              false,
	}
	for in, want := range cases {
		if got := Valid(in); got != want {
			t.Errorf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}
