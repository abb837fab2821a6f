// Package refid generates human-readable reference codes for billing
// documents, e.g. "INVOICE#4821". Codes are what patients quote at the
// cashier; records keep a uuid as their real identity.
package refid

import (
	"fmt"
	"math/rand"
	"regexp"
)

const (
	// PrefixInvoice is the code prefix for invoices.
	PrefixInvoice = "INVOICE"
	// PrefixReceipt is the code prefix for receipts.
	PrefixReceipt = "RECEIPT"
)

var codePattern = regexp.MustCompile(`^[A-Z]+#\d{4}$`)

// New returns a code of the form "<prefix>#nnnn" where nnnn is a random
// integer in [1000, 9999]. Codes are not guaranteed unique; uniqueness is
// enforced by the database where it matters.
func New(prefix string) string {
	return fmt.Sprintf("%s#%d", prefix, 1000+rand.Intn(9000))
}

// NewInvoice returns a fresh invoice reference code.
func NewInvoice() string {
	return New(PrefixInvoice)
}

// NewReceipt returns a fresh receipt reference code.
func NewReceipt() string {
	return New(PrefixReceipt)
}

// Valid reports whether s looks like a reference code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
