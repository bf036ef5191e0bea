package jsonv

// MaxDepth caps FindKey recursion independently of the visited set
const MaxDepth = 512

// FindKey searches root depth-first, pre-order. At each object it returns the
// value the object directly owns under key when that value is truthy;
// otherwise it descends into every member and array element in order. Shared
// and cyclic references are visited once.
func FindKey(root *Value, key string) *Value {
	seen := make(map[*Value]struct{})
	return findKey(root, key, 0, seen)
}

// FindKeyText is FindKey returning the scalar text of the match
func FindKeyText(root *Value, key string) string {
	return FindKey(root, key).Text()
}

func findKey(v *Value, key string, depth int, seen map[*Value]struct{}) *Value {
	if !v.isContainer() || depth > MaxDepth {
		return nil
	}
	if _, ok := seen[v]; ok {
		return nil
	}
	seen[v] = struct{}{}

	if v.kind == Object {
		if own, ok := v.Get(key); ok && own.Truthy() {
			return own
		}
		for _, m := range v.members {
			if found := findKey(m.Value, key, depth+1, seen); found != nil {
				return found
			}
		}
		return nil
	}

	for _, item := range v.items {
		if found := findKey(item, key, depth+1, seen); found != nil {
			return found
		}
	}
	return nil
}
