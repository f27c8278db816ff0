package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Form fields arrive in one of exactly two textual shapes: the HTML date
// input shape (2024-06-15) and the Brazilian display shape (15/06/2024,
// day and month optionally unpadded). Everything else, including the
// "NaN/NaN/NaN" artifact some spreadsheets export, is invalid input.
const (
	inputDateLayout   = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

var (
	ErrInvalidDate      = errors.New("unrecognized date format")
	ErrInvalidTrialDays = errors.New("trial days must be a positive integer")
)

// ParseFlexibleDate parses either accepted shape into a Date.
func ParseFlexibleDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN/NaN/NaN" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(inputDateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	if d, ok := parseDisplayDate(s); ok {
		return d, nil
	}
	return Date{}, ErrInvalidDate
}

// parseDisplayDate accepts D/M/YYYY with or without zero padding.
func parseDisplayDate(s string) (Date, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 4 {
		return Date{}, false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow such as 31/02.
	if t.Day() != day || int(t.Month()) != month {
		return Date{}, false
	}
	return Date{Time: t}, true
}

// ToInputFormat converts a date string to the YYYY-MM-DD input shape.
// Strings already in input shape pass through unchanged, so the function
// is idempotent over its own output.
func ToInputFormat(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(inputDateLayout, s); err == nil {
		return s, nil
	}
	d, ok := parseDisplayDate(s)
	if !ok {
		return "", ErrInvalidDate
	}
	return d.Format(inputDateLayout), nil
}

// ToDisplayFormat converts a date string to the DD/MM/YYYY display shape.
// Strings already in display shape pass through unchanged.
func ToDisplayFormat(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, ok := parseDisplayDate(s); ok {
		return s, nil
	}
	t, err := time.Parse(inputDateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(displayDateLayout), nil
}

// AddTrialDays returns start plus a trial period, in input shape. The day
// count comes from free text ("30", "30 dias"); a count that is not a
// positive integer is an error rather than a zero-day trial.
func AddTrialDays(start, trialDaysText string) (string, error) {
	d, err := ParseFlexibleDate(start)
	if err != nil {
		return "", err
	}
	days, err := parseDayCount(trialDaysText)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(inputDateLayout), nil
}

// parseDayCount extracts an integer from free text, keeping digits and a
// leading sign so "-5" stays negative and gets rejected.
func parseDayCount(s string) (int, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '-' && i == 0 {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n <= 0 {
		return 0, ErrInvalidTrialDays
	}
	return n, nil
}

// AddMonths returns start plus n calendar months, in input shape.
func AddMonths(start string, months int) (string, error) {
	d, err := ParseFlexibleDate(start)
	if err != nil {
		return "", err
	}
	if months <= 0 {
		return "", fmt.Errorf("month count must be positive, got %d", months)
	}
	return d.AddDate(0, months, 0).Format(inputDateLayout), nil
}

// NextRenewal computes the anniversary-based renewal date that follows an
// adjustment: if the adjustment landed on or after the contract
// anniversary of its own year, the renewal moves to the next year's
// anniversary; otherwise it is that same year's anniversary.
func NextRenewal(start, adjusted Date, months int) Date {
	if months <= 0 {
		months = 12
	}
	anniversary := time.Date(adjusted.Year(), start.Time.Month(), start.Time.Day(), 0, 0, 0, 0, time.UTC)
	if !adjusted.Time.Before(anniversary) {
		anniversary = anniversary.AddDate(0, months, 0)
	}
	return Date{Time: anniversary}
}

// NextRenewalFromText is the string form of NextRenewal used by handlers.
func NextRenewalFromText(start, adjusted string, months int) (string, error) {
	s, err := ParseFlexibleDate(start)
	if err != nil {
		return "", err
	}
	a, err := ParseFlexibleDate(adjusted)
	if err != nil {
		return "", err
	}
	return NextRenewal(s, a, months).Format(inputDateLayout), nil
}
