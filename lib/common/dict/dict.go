package dict

import "github.com/biker2000on/gnucash-web-sub001/lib/common/compare"

func Keys[K comparable, V any](m map[K]V) []K {
	res := make([]K, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	return res
}

func SortedKeys[K comparable, V any](m map[K]V, c compare.Compare[K]) []K {
	res := Keys(m)
	compare.Sort(res, c)
	return res
}

// GetDefault returns the value stored under k, creating and storing it
// with c if absent.
func GetDefault[K comparable, V any](m map[K]V, k K, c func() V) V {
	v, ok := m[k]
	if !ok {
		v = c()
		m[k] = v
	}
	return v
}
