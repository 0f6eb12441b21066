// Package state holds the per-session dialogue state: customer data,
// checkout progress, the consultive investigation context and the pending
// prompt stack. State is a schemaless map merged over defaults on every
// read, so adding a field never requires a migration.
package state

// Field keys. Grouped the way the flows consume them.
const (
	// customer
	KeyCustomerName  = "customer_name"
	KeyCustomerPhone = "customer_phone"
	KeyCustomerEmail = "customer_email"

	// checkout
	KeyDeliveryPref  = "delivery_pref"   // "delivery" or "pickup"
	KeyPaymentMethod = "payment_method"  // "pix" / "card" / "cash"
	KeyNeighborhood  = "neighborhood"
	KeyPostalCode    = "postal_code"
	KeyAddress       = "address"
	KeyCheckoutMode  = "checkout_mode"

	// last finalized order
	KeyLastOrderID      = "last_order_id"
	KeyLastOrderSummary = "last_order_summary"
	KeyLastOrderTotal   = "last_order_total"

	// usage-context gate (pre-sale consultive mode)
	KeyAwaitingUsageContext    = "awaiting_usage_context"
	KeyUsageContextProductHint = "usage_context_product_hint"

	// progressive consultive investigation
	KeyConsultiveInvestigation  = "consultive_investigation"
	KeyConsultiveApplication    = "consultive_application"
	KeyConsultiveEnvironment    = "consultive_environment"
	KeyConsultiveExposure       = "consultive_exposure"
	KeyConsultiveLoadType       = "consultive_load_type"
	KeyConsultiveSurface        = "consultive_surface"
	KeyConsultiveGrain          = "consultive_grain"
	KeyConsultiveSize           = "consultive_size"
	KeyConsultiveMortarType     = "consultive_mortar_type"
	KeyConsultiveStep           = "consultive_investigation_step"
	KeyRecommendationShown      = "consultive_recommendation_shown"
	KeyConsultiveProductHint    = "consultive_product_hint"
	KeyAskedContextFields       = "asked_context_fields"
	KeyLastConsultiveQuestion   = "last_consultive_question_key"
	KeyConsultiveLastSummary    = "consultive_last_summary"
	KeyConsultiveConstraints    = "consultive_catalog_constraints"

	// pending prompts and interruptions
	KeyPendingPrompt = "pending_prompt"
	KeyStateStack    = "state_stack"

	// suggestion and cart flow. These keys are set by the flows as needed
	// and are not part of the defaults.
	KeyLastHint              = "last_hint"
	KeyLastSuggestions       = "last_suggestions"
	KeyAskingForMore         = "asking_for_more"
	KeyAwaitingQty           = "awaiting_qty"
	KeyPendingProductID      = "pending_product_id"
	KeyPendingSuggestedUnits = "pending_suggested_units"
	KeyLastRequestedKg       = "last_requested_kg"
	KeyAwaitingRemoveChoice  = "awaiting_remove_choice"
	KeyAwaitingRemoveQty     = "awaiting_remove_qty"
	KeyRemoveOptions         = "remove_options"
	KeyPendingRemoveID       = "pending_remove_product_id"
	KeyPendingRemoveMaxQty   = "pending_remove_max_qty"
)

// Defaults returns a fresh copy of the default state. Callers may mutate
// the result freely.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyCustomerName:  nil,
		KeyCustomerPhone: nil,
		KeyCustomerEmail: nil,

		KeyDeliveryPref:  nil,
		KeyPaymentMethod: nil,
		KeyNeighborhood:  nil,
		KeyPostalCode:    nil,
		KeyAddress:       nil,
		KeyCheckoutMode:  false,

		KeyLastOrderID:      nil,
		KeyLastOrderSummary: nil,
		KeyLastOrderTotal:   nil,

		KeyAwaitingUsageContext:    false,
		KeyUsageContextProductHint: nil,

		KeyConsultiveInvestigation: false,
		KeyConsultiveApplication:   nil,
		KeyConsultiveEnvironment:   nil,
		KeyConsultiveExposure:      nil,
		KeyConsultiveLoadType:      nil,
		KeyConsultiveSurface:       nil,
		KeyConsultiveGrain:         nil,
		KeyConsultiveSize:          nil,
		KeyConsultiveMortarType:    nil,
		KeyConsultiveStep:          0,
		KeyRecommendationShown:     false,
		KeyConsultiveProductHint:   nil,
		KeyAskedContextFields:      []interface{}{},
		KeyLastConsultiveQuestion:  nil,
		KeyConsultiveLastSummary:   nil,
		KeyConsultiveConstraints:   map[string]interface{}{},

		KeyPendingPrompt: nil,
		KeyStateStack:    []interface{}{},
	}
}

// MergeDefaults lays the stored state over a fresh default map, so every
// key is always present for readers.
func MergeDefaults(stored map[string]interface{}) map[string]interface{} {
	merged := Defaults()
	for k, v := range stored {
		merged[k] = v
	}
	return merged
}

// consultiveResetFields is the patch applied when a new generic request or
// topic change must not inherit stale technical context.
func consultiveResetFields() map[string]interface{} {
	return map[string]interface{}{
		KeyAwaitingUsageContext:    false,
		KeyUsageContextProductHint: nil,
		KeyConsultiveInvestigation: false,
		KeyConsultiveApplication:   nil,
		KeyConsultiveEnvironment:   nil,
		KeyConsultiveExposure:      nil,
		KeyConsultiveLoadType:      nil,
		KeyConsultiveSurface:       nil,
		KeyConsultiveGrain:         nil,
		KeyConsultiveSize:          nil,
		KeyConsultiveMortarType:    nil,
		KeyConsultiveStep:          0,
		KeyRecommendationShown:     false,
		KeyConsultiveProductHint:   nil,
		KeyAskedContextFields:      []interface{}{},
		KeyLastConsultiveQuestion:  nil,
		KeyConsultiveLastSummary:   nil,
		KeyConsultiveConstraints:   map[string]interface{}{},
	}
}

// Str reads a string field, treating nil and non-strings as empty.
func Str(st map[string]interface{}, key string) string {
	if v, ok := st[key].(string); ok {
		return v
	}
	return ""
}

// Bool reads a boolean field, treating nil and non-bools as false.
func Bool(st map[string]interface{}, key string) bool {
	if v, ok := st[key].(bool); ok {
		return v
	}
	return false
}

// Int reads a numeric field. JSON round-trips store numbers as float64.
func Int(st map[string]interface{}, key string) int {
	switch v := st[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Strings reads a list-of-strings field, skipping non-string members.
func Strings(st map[string]interface{}, key string) []string {
	raw, ok := st[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map reads a nested object field.
func Map(st map[string]interface{}, key string) map[string]interface{} {
	if v, ok := st[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
