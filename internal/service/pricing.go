package service

import (
	"fmt"
	"strings"

	apperrors "optivolt/internal/errors"
)

// PricingFunc turns a subtotal into the final price plus a human-readable
// rationale for the locality policy that was applied.
type PricingFunc func(subtotal float64) (float64, string)

func standardPolicy(subtotal float64) (float64, string) {
	return subtotal, "Standard rate (no extra charge)"
}

func rabatPolicy(subtotal float64) (float64, string) {
	return subtotal * 1.20, "Rabat rate (20% surcharge included)"
}

func casaPolicy(subtotal float64) (float64, string) {
	return subtotal + 50, "Casa rate (+50 MAD travel fee)"
}

var pricingPolicies = map[string]PricingFunc{
	"rabat":      rabatPolicy,
	"casablanca": casaPolicy,
	"casa":       casaPolicy,
}

// RegisterPricingPolicy adds or replaces the policy for a locality. New
// localities are wired here, never by branching on the locality elsewhere.
func RegisterPricingPolicy(locality string, f PricingFunc) {
	pricingPolicies[normalizeLocality(locality)] = f
}

func normalizeLocality(locality string) string {
	return strings.ToLower(strings.TrimSpace(locality))
}

// ComputePrice computes the final price for quantity units of an offer:
// subtotal = basePrice + perUnitPrice*quantity, then the locality policy.
// Unknown or empty localities fall back to the standard policy.
func ComputePrice(basePrice, perUnitPrice float64, quantity int, locality string) (float64, string, error) {
	if quantity < 1 {
		return 0, "", fmt.Errorf("quantity must be at least 1, got %d: %w", quantity, apperrors.ErrInvalidInput)
	}
	subtotal := basePrice + perUnitPrice*float64(quantity)
	policy, ok := pricingPolicies[normalizeLocality(locality)]
	if !ok {
		policy = standardPolicy
	}
	final, detail := policy(subtotal)
	return final, detail, nil
}
