package catalog

import "github.com/dmitrijs2005/comparehub/internal/client/models"

const MaxKeySpecs = 6

type KeySpec struct {
	Label string
	Value string
}

var keySpecPaths = []struct {
	label string
	path  []string
}{
	{"Screen Size", []string{"Display", "Main", "Size"}},
	{"Resolution", []string{"Display", "Main", "Resolution"}},
	{"RAM", []string{"Performance", "Ram"}},
	{"Storage", []string{"Performance", "Storage"}},
	{"Main Camera", []string{"Camera", "Rear_Main"}},
	{"Battery", []string{"Battery", "Capacity"}},
	{"OS", []string{"Os", "Operating System"}},
}

// KeySpecs picks the headline specs that are present, at most MaxKeySpecs.
func KeySpecs(specs models.Specs) []KeySpec {
	var out []KeySpec
	for _, k := range keySpecPaths {
		v, ok := specs.Lookup(k.path...)
		if !ok || v == "" {
			continue
		}
		out = append(out, KeySpec{Label: k.label, Value: v})
		if len(out) == MaxKeySpecs {
			break
		}
	}
	return out
}
