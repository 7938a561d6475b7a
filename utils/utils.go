package utils

import (
	"strings"

	mapset "github.com/deckarep/golang-set"
)

// Compiler and C++ runtime internals that only add noise to a struct
// listing.
var filterList = []interface{}{
	"std::",
	"__gnu_cxx",
	"__aligned_buffer",
	"_Multi_array",
	"__shared_ptr_access",
	"_Tuple_impl",
}

var filterSet = mapset.NewSetFromSlice(filterList)

// FilterStructName reports whether a struct name should be dropped
// from the listing.
func FilterStructName(name string) bool {
	if len(name) == 0 {
		return true
	}
	for marker := range filterSet.Iter() {
		if strings.Contains(name, marker.(string)) {
			return true
		}
	}
	return false
}
