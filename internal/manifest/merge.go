package manifest

// Merge folds src into dst. Nested objects merge key by key; arrays and
// scalars in src replace whatever dst holds. Keys new to dst are appended
// in src order.
func Merge(dst, src *Object) {
	for _, k := range src.keys {
		sv := src.values[k]
		if so, ok := sv.(*Object); ok {
			if do, ok := dst.values[k].(*Object); ok {
				Merge(do, so)
				continue
			}
		}
		dst.Set(k, clone(sv))
	}
}

func clone(v any) any {
	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range val.keys {
			out.Set(k, clone(val.values[k]))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = clone(item)
		}
		return out
	default:
		return val
	}
}
