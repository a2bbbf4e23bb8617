// Package response reduces the upstream API's historically inconsistent
// payload shapes to one canonical form. The ordered fallback below mirrors
// real server variants and must stay ordered most-specific-first; collapsing
// it into a single fixed schema breaks older endpoints.
package response

import (
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/internal/metrics"
	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

// Normalize maps a decoded payload into the canonical response shape. It is
// total: unknown shapes degrade to a generic wrap, never an error. First
// matching rule wins:
//
//  1. explicit success:false passes through untouched
//  2. data.products is lifted to the top level
//  3. top-level products is used directly
//  4. explicit success with no products passes through
//  5. a bare array becomes the products list
//  6. anything else is wrapped under data with success:true
func Normalize(payload any) models.CanonicalResponse {
	if obj, ok := payload.(map[string]any); ok {
		if DeclaresFailure(obj) {
			metrics.NormalizedShapes.WithLabelValues("error_passthrough").Inc()
			return models.CanonicalResponse(obj)
		}
		if data, ok := obj["data"].(map[string]any); ok {
			if _, has := data["products"]; has {
				metrics.NormalizedShapes.WithLabelValues("nested_data").Inc()
				return liftNestedData(obj, data)
			}
		}
		if _, has := obj["products"]; has {
			metrics.NormalizedShapes.WithLabelValues("top_level_products").Inc()
			return withSuccess(cloneMap(obj))
		}
		if _, has := obj["success"]; has {
			metrics.NormalizedShapes.WithLabelValues("explicit_success").Inc()
			return models.CanonicalResponse(obj)
		}
	}
	if list, ok := payload.([]any); ok {
		metrics.NormalizedShapes.WithLabelValues("bare_array").Inc()
		return models.CanonicalResponse{
			"success":    true,
			"products":   list,
			"pagination": map[string]any{},
		}
	}
	metrics.NormalizedShapes.WithLabelValues("generic_wrap").Inc()
	return models.CanonicalResponse{
		"success": true,
		"data":    payload,
	}
}

// liftNestedData raises products/pagination out of data and merges the rest
// of the data object into the top level. Nested fields win over top-level
// duplicates since they are the more specific variant.
func liftNestedData(obj, data map[string]any) models.CanonicalResponse {
	out := make(map[string]any, len(obj)+len(data))
	for k, v := range obj {
		if k == "data" {
			continue
		}
		out[k] = v
	}
	for k, v := range data {
		out[k] = v
	}
	return withSuccess(out)
}

// DeclaresFailure reports whether the object carries an explicit failure
// marker. Some upstream endpoints send success as the string "false"; this is
// the one predicate for that, shared with the transport short-circuit.
func DeclaresFailure(obj map[string]any) bool {
	switch v := obj["success"].(type) {
	case bool:
		return !v
	case string:
		return v == "false"
	default:
		return false
	}
}

func withSuccess(out map[string]any) models.CanonicalResponse {
	if _, has := out["success"]; !has {
		out["success"] = true
	}
	return models.CanonicalResponse(out)
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
