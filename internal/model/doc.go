// Package model defines the domain types shared across components.
//
// Money and quantities are decimal.Decimal internally; the float64 fields on
// wire-facing types exist only for JSON encoding and carry no arithmetic.
package model
