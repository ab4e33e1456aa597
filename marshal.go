package dino

import (
	"github.com/dop251/goja"
)

// marshalReq is the schema-mapping codegen the original crate produced at
// compile time via a derive macro (spec.md §9 "Macro-generated
// marshaling"). Since goja's object protocol has no Go-side code
// generation hook analogous to the original's macro, this is hand-written
// per spec.md's re-specification: "an implementation may hand-write,
// generate, or reflect" — one property per struct field, optional values
// become null when absent.
func marshalReq(rt *goja.Runtime, req *Req) *goja.Object {
	obj := rt.NewObject()
	obj.Set("method", req.Method)
	obj.Set("url", req.URL)
	obj.Set("query", stringMapToObject(rt, req.Query))
	obj.Set("params", stringMapToObject(rt, req.Params))
	obj.Set("headers", stringMapToObject(rt, req.Headers))
	if req.Body != nil {
		obj.Set("body", *req.Body)
	} else {
		obj.Set("body", goja.Null())
	}
	return obj
}

func stringMapToObject(rt *goja.Runtime, m map[string]string) *goja.Object {
	obj := rt.NewObject()
	for k, v := range m {
		obj.Set(k, v)
	}
	return obj
}

// unmarshalRes reads a resolved script value back into a Res, reporting
// field-level errors per spec.md §4.4's marshaling rules: a present body
// must be a string, an absent headers map is treated as empty, and a
// missing/non-numeric status is response-invalid.
func unmarshalRes(v goja.Value) (*Res, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, errResponseInvalid("handler resolved to null/undefined, expected an object with a status")
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, errResponseInvalid("handler did not resolve to an object")
	}

	statusVal := obj.Get("status")
	if statusVal == nil || goja.IsUndefined(statusVal) {
		return nil, errResponseInvalid("response is missing a numeric status field")
	}
	switch statusVal.Export().(type) {
	case int64, float64:
	default:
		return nil, errResponseInvalid("response status is not a number")
	}
	status := uint16(statusVal.ToInteger())

	headers := map[string]string{}
	if hv := obj.Get("headers"); hv != nil && !goja.IsUndefined(hv) && !goja.IsNull(hv) {
		ho, ok := hv.(*goja.Object)
		if !ok {
			return nil, errResponseInvalid("response headers is not an object")
		}
		for _, key := range ho.Keys() {
			headers[key] = ho.Get(key).String()
		}
	}

	var body *string
	if bv := obj.Get("body"); bv != nil && !goja.IsUndefined(bv) && !goja.IsNull(bv) {
		s, isStr := bv.Export().(string)
		if !isStr {
			return nil, errResponseInvalid("response body must be a string")
		}
		body = &s
	}

	return &Res{Status: status, Headers: headers, Body: body}, nil
}
