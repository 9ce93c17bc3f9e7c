package utils

import "fmt"

// FormatOr formats the pointed value, or returns fallback for nil.
func FormatOr[T any](ptr *T, fallback string) string {
	if ptr == nil {
		return fallback
	}
	return fmt.Sprintf("%v", *ptr)
}

func FormatBoolean(yesno bool, yes string, no string) string {
	if yesno {
		return yes
	}
	return no
}

// FormatHours renders an hour amount with two decimals, e.g. 8.5 -> "8.50".
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.2f", hours)
}
