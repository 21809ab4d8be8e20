package model

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// Receipt number format: branch prefix, order date, daily sequence.
// Example: KV-260830-0042.
var (
	receiptNumberRe = regexp.MustCompile(`^[A-Z]{2,3}-\d{6}-\d{4}$`)
	tagNumberRe     = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

const tagAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ValidateReceiptNumber reports whether the receipt number matches the
// XX-YYMMDD-ZZZZ format.
func ValidateReceiptNumber(receiptNumber string) bool {
	return receiptNumberRe.MatchString(receiptNumber)
}

// ValidateTagNumber reports whether the tag is 8 uppercase alphanumerics.
func ValidateTagNumber(tagNumber string) bool {
	return tagNumberRe.MatchString(tagNumber)
}

// GenerateReceiptNumber builds a receipt number from the branch prefix, the
// given date, and a daily sequence number.
func GenerateReceiptNumber(branchPrefix string, date time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%04d", strings.ToUpper(branchPrefix), date.Format("060102"), sequence)
}

// GenerateTagNumber produces a random 8-character item tag.
func GenerateTagNumber() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteByte(tagAlphabet[rand.Intn(len(tagAlphabet))])
	}
	return b.String()
}
