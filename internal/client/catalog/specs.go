package catalog

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

// SpecRow is one rendered spec line. Exactly one of Value, Items or Nested
// carries data.
type SpecRow struct {
	Label  string
	Value  string
	Items  []string
	Nested []SpecRow
}

type SpecSection struct {
	Title string
	Rows  []SpecRow
}

// Flatten turns the specs tree into sections, one per top-level category,
// keeping source order. Maps nest one level below a category; anything
// deeper is folded into a single value.
func Flatten(specs models.Specs) []SpecSection {
	out := make([]SpecSection, 0, len(specs))
	for _, cat := range specs {
		sec := SpecSection{Title: Humanize(cat.Key)}
		switch cat.Kind {
		case models.SpecMap:
			for _, n := range cat.Children {
				sec.Rows = append(sec.Rows, row(n, true))
			}
		case models.SpecList:
			sec.Rows = append(sec.Rows, SpecRow{Items: cat.Items})
		case models.SpecScalar:
			if cat.Value != "" {
				sec.Rows = append(sec.Rows, SpecRow{Value: cat.Value})
			}
		}
		out = append(out, sec)
	}
	return out
}

func row(n models.SpecNode, nest bool) SpecRow {
	r := SpecRow{Label: Humanize(n.Key)}
	switch n.Kind {
	case models.SpecScalar:
		r.Value = n.Value
	case models.SpecList:
		if nest {
			r.Items = n.Items
		} else {
			r.Value = strings.Join(n.Items, ", ")
		}
	case models.SpecMap:
		if nest {
			for _, c := range n.Children {
				r.Nested = append(r.Nested, row(c, false))
			}
		} else {
			r.Value = fold(n.Children)
		}
	}
	return r
}

func fold(nodes []models.SpecNode) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		var v string
		switch n.Kind {
		case models.SpecScalar:
			v = n.Value
		case models.SpecList:
			v = strings.Join(n.Items, ", ")
		case models.SpecMap:
			v = "{" + fold(n.Children) + "}"
		}
		parts = append(parts, Humanize(n.Key)+": "+v)
	}
	return strings.Join(parts, "; ")
}

// Humanize turns spec keys into labels: camelCase is split, underscores
// become spaces and the first letter is upper-cased. Acronyms stay whole.
func Humanize(key string) string {
	rs := []rune(key)
	var b strings.Builder
	for i, r := range rs {
		if r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}

	s := strings.Join(strings.Fields(b.String()), " ")
	if s == "" {
		return s
	}
	out := []rune(s)
	out[0] = unicode.ToUpper(out[0])
	return string(out)
}
