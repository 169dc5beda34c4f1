// Package testeq provides order-insensitive equality helpers
// producing one error report per divergence.
package testeq

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Maps compares actual against expected reporting every missing,
// unexpected and mismatching entry through writer in key order.
func Maps[K constraints.Ordered, V any](
	writer interface {
		Helper()
		Errorf(fmt string, v ...any)
	},
	title string,
	expected, actual map[K]V,
	check func(expected, actual V) (errMsg string),
	stringify func(V) string,
) (ok bool) {
	writer.Helper()
	ok = true

	keys := maps.Keys(expected)
	for k := range actual {
		if _, shared := expected[k]; !shared {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		ev, inExpected := expected[k]
		av, inActual := actual[k]
		switch {
		case !inActual:
			writer.Errorf("missing %s %v (%s)", title, k, stringify(ev))
			ok = false
		case !inExpected:
			writer.Errorf("unexpected %s %v (%s)", title, k, stringify(av))
			ok = false
		default:
			if msg := check(ev, av); msg != "" {
				writer.Errorf("mismatching %s %v: %s", title, k, msg)
				ok = false
			}
		}
	}
	return ok
}

// Slices compares actual against expected index-wise reporting every
// mismatching, unexpected and missing item through writer.
func Slices[T any](
	writer interface {
		Helper()
		Errorf(fmt string, v ...any)
	},
	title string,
	expected, actual []T,
	check func(expected, actual T) (errMsg string),
	stringify func(T) string,
) (ok bool) {
	writer.Helper()
	ok = true

	shared := len(expected)
	if len(actual) < shared {
		shared = len(actual)
	}
	for i := 0; i < shared; i++ {
		if msg := check(expected[i], actual[i]); msg != "" {
			writer.Errorf("mismatching %s at index %d: %s", title, i, msg)
			ok = false
		}
	}
	for i := shared; i < len(actual); i++ {
		writer.Errorf(
			"unexpected %s at index %d (%s)",
			title, i, stringify(actual[i]),
		)
		ok = false
	}
	for i := shared; i < len(expected); i++ {
		writer.Errorf(
			"missing %s at index %d (%s)",
			title, i, stringify(expected[i]),
		)
		ok = false
	}
	return ok
}
