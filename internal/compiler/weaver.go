package compiler

import (
	"regexp"
	"sort"
	"strings"
)

const indentUnit = "    "

// markerPattern matches the region of one block: the start marker line, the
// text between the markers, and the end marker.
func markerPattern(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?m)^([ \t]*)# ` + q + `[ \t]*\n((?s:.*?))^([ \t]*)# end_` + q + `[ \t]*$`)
}

type region struct {
	block *Block
	loc   []int
}

// Weave rewrites every marker region of template that acc has emissions for.
// All regions are located on the original text before any rewriting, so the
// order blocks were referenced in does not matter. Untouched regions are
// copied byte for byte.
func Weave(template string, acc *Accumulator) (string, error) {
	regions := make([]region, 0, acc.Len())
	for _, name := range acc.Names() {
		loc := markerPattern(name).FindStringSubmatchIndex(template)
		if loc == nil {
			return "", &BlockError{Block: name, Err: ErrBlockNotFound}
		}
		b, _ := acc.Block(name)
		regions = append(regions, region{block: b, loc: loc})
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].loc[0] < regions[j].loc[0] })
	for i := 1; i < len(regions); i++ {
		if regions[i].loc[0] < regions[i-1].loc[1] {
			return "", &BlockError{Block: regions[i].block.Name, Err: ErrOverlappingBlocks}
		}
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, r := range regions {
		b.WriteString(template[last:r.loc[0]])
		writeRegion(&b, template, r)
		last = r.loc[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

func writeRegion(b *strings.Builder, template string, r region) {
	indent := template[r.loc[2]:r.loc[3]]
	inner := template[r.loc[4]:r.loc[5]]

	b.WriteString(template[r.loc[0]:r.loc[4]])
	if head := strings.Join(r.block.Head, "\n"); head != "" {
		b.WriteString(indentLines(head, indent) + "\n")
	}
	b.WriteString(inner)
	if tail := strings.Join(r.block.Tail, "\n"); tail != "" {
		b.WriteString(indentLines(tail, indent) + "\n")
	}
	b.WriteString(template[r.loc[6]:r.loc[1]])
}

// indentLines prefixes every non-blank line of s with indent.
func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !isBlank(line) {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
