package blocks

import (
	"sort"
	"strings"
)

// Structural detectors. Each scans for one known gate topology and claims
// the matched components; they run in fixed priority order and a component
// is claimed at most once, so the first match wins.

type group struct {
	kind       Kind
	components []string
}

type detector interface {
	name() string
	detect(ctx *detectContext) []group
}

func detectorChain() []detector {
	return []detector{
		adderDetector{},
		muxDetector{},
		comparatorDetector{},
		decoderDetector{},
	}
}

// adderDetector matches full-adder cells and merges carry-chained cells
// into one ripple-carry adder block.
//
// The cell signature is the canonical 5-gate form:
//
//	x1 = XOR(a, b)
//	x2 = XOR(x1, cin)      sum
//	ap = AND(x1, cin)      propagate
//	ag = AND(a, b)         generate
//	or = OR(ap, ag)        cout
//
// Half-adder pairs (XOR and AND sharing both input nets) match as a
// degenerate cell.
type adderDetector struct{}

func (adderDetector) name() string { return "adder" }

type adderCell struct {
	members []string
	cout    string // the OR (or AND, for a half adder) producing carry out
}

func (adderDetector) detect(ctx *detectContext) []group {
	taken := map[string]bool{}
	free := func(ids ...string) bool {
		if ctx.anyClaimed(ids...) {
			return false
		}
		for _, id := range ids {
			if taken[id] {
				return false
			}
		}
		return true
	}

	var cells []adderCell
	for i := range ctx.circ.Components {
		or := ctx.circ.Components[i].ID
		if ctx.typeOf[or] != "OR" || !free(or) {
			continue
		}
		ands := ctx.driversOfType(or, "AND")
		if len(ands) != 2 || len(ctx.drivenBy[or]) != 2 {
			continue
		}
		cell, ok := matchFullAdder(ctx, or, ands[0], ands[1])
		if !ok || !free(cell.members...) {
			continue
		}
		for _, m := range cell.members {
			taken[m] = true
		}
		cells = append(cells, cell)
	}

	// Half adders: an XOR and an AND fed by the same two sources. Pairs
	// whose inputs sit on the circuit boundary have no visible sharing
	// and stay undetected.
	for i := range ctx.circ.Components {
		x := ctx.circ.Components[i].ID
		if ctx.typeOf[x] != "XOR" || !free(x) {
			continue
		}
		xKey := driverKey(ctx, x)
		if xKey == "" || len(ctx.drivenBy[x]) != 2 {
			continue
		}
		for j := range ctx.circ.Components {
			a := ctx.circ.Components[j].ID
			if ctx.typeOf[a] != "AND" || !free(a) || a == x {
				continue
			}
			if driverKey(ctx, a) != xKey {
				continue
			}
			taken[x], taken[a] = true, true
			cells = append(cells, adderCell{members: []string{x, a}, cout: a})
			break
		}
	}

	return mergeCarryChains(ctx, cells)
}

func matchFullAdder(ctx *detectContext, or, a1, a2 string) (adderCell, bool) {
	// Identify the propagate AND: the one fed by a XOR whose output also
	// feeds the sum XOR.
	for _, pair := range [][2]string{{a1, a2}, {a2, a1}} {
		ap, ag := pair[0], pair[1]
		for _, x1 := range ctx.driversOfType(ap, "XOR") {
			for _, x2 := range ctx.drives[x1] {
				if ctx.typeOf[x2] != "XOR" || x2 == x1 {
					continue
				}
				members := []string{x1, x2, ap, ag, or}
				if distinct(members) {
					return adderCell{members: members, cout: or}, true
				}
			}
		}
	}
	return adderCell{}, false
}

// mergeCarryChains unions cells whose carry-out feeds a member of another
// cell, producing one block per ripple chain.
func mergeCarryChains(ctx *detectContext, cells []adderCell) []group {
	owner := map[string]int{}
	for i, c := range cells {
		for _, m := range c.members {
			owner[m] = i
		}
	}

	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	for i, c := range cells {
		for _, to := range ctx.drives[c.cout] {
			if j, ok := owner[to]; ok && j != i {
				parent[find(j)] = find(i)
			}
		}
	}

	grouped := map[int][]string{}
	var order []int
	for i, c := range cells {
		root := find(i)
		if _, seen := grouped[root]; !seen {
			order = append(order, root)
		}
		grouped[root] = append(grouped[root], c.members...)
	}

	var out []group
	for _, root := range order {
		out = append(out, group{kind: Adder, components: grouped[root]})
	}
	return out
}

// muxDetector matches the 2-way select topology: OR of two ANDs where one
// AND gates its data input with an inverted select.
type muxDetector struct{}

func (muxDetector) name() string { return "mux" }

func (muxDetector) detect(ctx *detectContext) []group {
	taken := map[string]bool{}
	var out []group

	for i := range ctx.circ.Components {
		or := ctx.circ.Components[i].ID
		if ctx.typeOf[or] != "OR" || ctx.claimed[or] || taken[or] {
			continue
		}
		ands := ctx.driversOfType(or, "AND")
		if len(ands) != 2 || len(ctx.drivenBy[or]) != 2 {
			continue
		}
		for _, pair := range [][2]string{{ands[0], ands[1]}, {ands[1], ands[0]}} {
			inv, direct := pair[0], pair[1]
			nots := ctx.driversOfType(inv, "NOT")
			if len(nots) != 1 {
				continue
			}
			n := nots[0]
			members := []string{n, inv, direct, or}
			if !distinct(members) || ctx.anyClaimed(members...) || anyIn(taken, members) {
				continue
			}
			// When the select net is visible, it must feed both the
			// inverter and the direct AND.
			if !selectShared(ctx, n, direct) {
				continue
			}
			for _, m := range members {
				taken[m] = true
			}
			out = append(out, group{kind: Mux, components: members})
			break
		}
	}
	return out
}

// selectShared checks that whatever drives the inverter also drives the
// direct AND. Boundary selects have no driver and pass by default.
func selectShared(ctx *detectContext, not, direct string) bool {
	srcs := ctx.drivenBy[not]
	if len(srcs) == 0 {
		return true
	}
	for _, s := range srcs {
		for _, d := range ctx.drivenBy[direct] {
			if s == d {
				return true
			}
		}
	}
	return false
}

// driverKey canonicalizes a component's driver set for signature matching.
// Empty when nothing in the circuit drives it.
func driverKey(ctx *detectContext, id string) string {
	srcs := ctx.drivenBy[id]
	if len(srcs) == 0 {
		return ""
	}
	sorted := append([]string(nil), srcs...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// comparatorDetector matches equality comparators: an AND reduce whose
// inputs are all XNOR outputs.
type comparatorDetector struct{}

func (comparatorDetector) name() string { return "comparator" }

func (comparatorDetector) detect(ctx *detectContext) []group {
	taken := map[string]bool{}
	var out []group

	for i := range ctx.circ.Components {
		and := ctx.circ.Components[i].ID
		if ctx.typeOf[and] != "AND" || ctx.claimed[and] || taken[and] {
			continue
		}
		drivers := ctx.drivenBy[and]
		if len(drivers) == 0 {
			continue
		}
		allXnor := true
		for _, d := range drivers {
			if ctx.typeOf[d] != "XNOR" {
				allXnor = false
				break
			}
		}
		if !allXnor {
			continue
		}
		members := append(append([]string{}, drivers...), and)
		if ctx.anyClaimed(members...) || anyIn(taken, members) {
			continue
		}
		for _, m := range members {
			taken[m] = true
		}
		out = append(out, group{kind: Comparator, components: members})
	}
	return out
}

// decoderDetector matches one-hot decode arrays: two or more ANDs decoding
// the same source set through differing NOT patterns.
type decoderDetector struct{}

func (decoderDetector) name() string { return "decoder" }

func (decoderDetector) detect(ctx *detectContext) []group {
	type candidate struct {
		and  string
		nots []string
	}
	bySource := map[string][]candidate{}
	var keys []string

	for i := range ctx.circ.Components {
		and := ctx.circ.Components[i].ID
		if ctx.typeOf[and] != "AND" || ctx.claimed[and] {
			continue
		}
		drivers := ctx.drivenBy[and]
		if len(drivers) < 2 {
			continue
		}
		sources := map[string]bool{}
		var nots []string
		usable := true
		for _, d := range drivers {
			if ctx.claimed[d] {
				usable = false
				break
			}
			if ctx.typeOf[d] == "NOT" {
				nots = append(nots, d)
				sources[ctx.resolveThroughNot(d)] = true
			} else {
				sources[d] = true
			}
		}
		if !usable || len(sources) < 2 {
			continue
		}
		key := sourceKey(sources)
		if _, seen := bySource[key]; !seen {
			keys = append(keys, key)
		}
		bySource[key] = append(bySource[key], candidate{and: and, nots: nots})
	}

	var out []group
	for _, key := range keys {
		cands := bySource[key]
		if len(cands) < 2 {
			continue
		}
		hasNot := false
		var members []string
		notSeen := map[string]bool{}
		for _, cand := range cands {
			for _, n := range cand.nots {
				hasNot = true
				if !notSeen[n] {
					notSeen[n] = true
					members = append(members, n)
				}
			}
			members = append(members, cand.and)
		}
		if !hasNot {
			continue
		}
		out = append(out, group{kind: Decoder, components: members})
	}
	return out
}

// resolveThroughNot maps a NOT gate to its driving component so decode
// candidates key on the real source; an undriven NOT keys on itself.
func (ctx *detectContext) resolveThroughNot(not string) string {
	drivers := ctx.drivenBy[not]
	if len(drivers) == 1 {
		return drivers[0]
	}
	return not
}

func sourceKey(sources map[string]bool) string {
	keys := make([]string, 0, len(sources))
	for s := range sources {
		keys = append(keys, s)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x00")
}

func distinct(ids []string) bool {
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func anyIn(set map[string]bool, ids []string) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}
