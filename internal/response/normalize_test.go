package response

import (
	"reflect"
	"testing"
)

func TestNormalizeFailurePassthrough(t *testing.T) {
	in := map[string]any{"success": false, "message": "invalid reseller token", "code": "AUTH_401"}
	out := Normalize(in)
	if out.Success() {
		t.Fatal("failure payload must stay unsuccessful")
	}
	if out["message"] != "invalid reseller token" || out["code"] != "AUTH_401" {
		t.Fatalf("failure payload was altered: %#v", out)
	}
}

func TestNormalizeNestedData(t *testing.T) {
	products := []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}}
	pagination := map[string]any{"page": float64(2), "total_pages": float64(9)}
	in := map[string]any{
		"status": "ok",
		"data": map[string]any{
			"products":   products,
			"pagination": pagination,
			"currency":   "USD",
		},
	}
	out := Normalize(in)
	if !out.Success() {
		t.Fatal("expected success true")
	}
	if !reflect.DeepEqual(out.Products(), products) {
		t.Fatalf("products not lifted: %#v", out.Products())
	}
	if !reflect.DeepEqual(out.Pagination(), pagination) {
		t.Fatalf("pagination not lifted: %#v", out.Pagination())
	}
	if out["currency"] != "USD" {
		t.Fatal("remaining data fields were not merged to the top level")
	}
	if out["status"] != "ok" {
		t.Fatal("top-level fields outside data were dropped")
	}
	if _, has := out["data"]; has {
		t.Fatal("data wrapper should not survive lifting")
	}
}

func TestNormalizeTopLevelProducts(t *testing.T) {
	products := []any{map[string]any{"id": "p1"}}
	in := map[string]any{"products": products, "region": "IN"}
	out := Normalize(in)
	if !out.Success() {
		t.Fatal("expected success true")
	}
	if !reflect.DeepEqual(out.Products(), products) {
		t.Fatalf("products mismatch: %#v", out.Products())
	}
	if out["region"] != "IN" {
		t.Fatal("sibling fields were dropped")
	}
}

func TestNormalizeExplicitSuccessNoProducts(t *testing.T) {
	in := map[string]any{"success": true, "balance": float64(1250)}
	out := Normalize(in)
	if !out.Success() || out["balance"] != float64(1250) {
		t.Fatalf("explicit-success payload was altered: %#v", out)
	}
	if out.Products() != nil {
		t.Fatal("no products should be invented")
	}
}

func TestNormalizeBareArray(t *testing.T) {
	in := []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}}
	out := Normalize(any(in))
	if !out.Success() {
		t.Fatal("expected success true")
	}
	if !reflect.DeepEqual(out.Products(), in) {
		t.Fatalf("array was not adopted as products: %#v", out.Products())
	}
	if pg := out.Pagination(); pg == nil || len(pg) != 0 {
		t.Fatalf("expected empty pagination, got %#v", pg)
	}
}

func TestNormalizeGenericWrap(t *testing.T) {
	in := map[string]any{"wallet": map[string]any{"balance": float64(10)}}
	out := Normalize(in)
	if !out.Success() {
		t.Fatal("expected success true")
	}
	if !reflect.DeepEqual(out["data"], in) {
		t.Fatalf("payload was not wrapped under data: %#v", out)
	}
}

func TestNormalizeScalarAndNil(t *testing.T) {
	for _, in := range []any{nil, "pong", float64(42), true} {
		out := Normalize(in)
		if !out.Success() {
			t.Fatalf("expected success true for %#v", in)
		}
		if !reflect.DeepEqual(out["data"], in) {
			t.Fatalf("scalar %#v not wrapped: %#v", in, out)
		}
	}
}

func TestNormalizeStringSuccessFalse(t *testing.T) {
	in := map[string]any{"success": "false", "message": "soft failure"}
	out := Normalize(in)
	if out.Success() {
		t.Fatal("string success:false must pass through as a failure")
	}
}

func TestDeclaresFailure(t *testing.T) {
	cases := []struct {
		obj  map[string]any
		want bool
	}{
		{map[string]any{"success": false}, true},
		{map[string]any{"success": "false"}, true},
		{map[string]any{"success": true}, false},
		{map[string]any{"success": "true"}, false},
		{map[string]any{"message": "no marker"}, false},
	}
	for _, c := range cases {
		if got := DeclaresFailure(c.obj); got != c.want {
			t.Fatalf("DeclaresFailure(%#v) = %v, want %v", c.obj, got, c.want)
		}
	}
}
