package scope

import (
	"sort"

	"github.com/lcalzada-xor/jslint/pkg/models"
)

// Undeclared is a reference that resolved to nothing in the scope chain or
// the import closure.
type Undeclared struct {
	Unit string
	Name string
	Span models.Span
}

// Resolver answers cross-unit declaration lookups. Units are added as they
// finish parsing; Resolve runs once after all of them are in (the barrier),
// so the import graph and declaration tables are written exactly once and
// only read afterwards.
type Resolver struct {
	units   map[string]*UnitScope
	imports map[string][]string
	order   []string
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		units:   make(map[string]*UnitScope),
		imports: make(map[string][]string),
	}
}

// AddUnit registers a parsed unit and its outgoing import edges.
func (r *Resolver) AddUnit(us *UnitScope, imports []string) {
	r.units[us.Unit] = us
	r.imports[us.Unit] = imports
	r.order = append(r.order, us.Unit)
}

// Resolve checks every reference of every unit against its scope chain, the
// import closure of its unit, and the runtime globals. The import graph may
// contain cycles: units are collapsed into strongly-connected components
// first, so mutually-importing units see each other's declarations and
// resolution always terminates.
func (r *Resolver) Resolve() []Undeclared {
	closure := r.closures()

	var out []Undeclared
	for _, name := range r.order {
		us := r.units[name]
		visible := closure[name]
		for _, ref := range us.Refs {
			if ref.Scope.Lookup(ref.Name) != nil {
				continue
			}
			if visible[ref.Name] {
				continue
			}
			if builtins[ref.Name] {
				continue
			}
			out = append(out, Undeclared{Unit: name, Name: ref.Name, Span: ref.Span})
		}
	}
	return out
}

// closures returns, per unit, the set of global names visible through the
// unit itself and everything transitively imported. Tarjan's algorithm
// condenses the graph; the closure is then computed bottom-up over the DAG.
func (r *Resolver) closures() map[string]map[string]bool {
	sccs, sccOf := r.tarjan()

	// Edges between components.
	compEdges := make(map[int]map[int]bool)
	for from, tos := range r.imports {
		cf, ok := sccOf[from]
		if !ok {
			continue
		}
		for _, to := range tos {
			if ct, ok := sccOf[to]; ok && ct != cf {
				if compEdges[cf] == nil {
					compEdges[cf] = make(map[int]bool)
				}
				compEdges[cf][ct] = true
			}
		}
	}

	// Globals declared within each component.
	compGlobals := make(map[int]map[string]bool, len(sccs))
	for ci, members := range sccs {
		g := make(map[string]bool)
		for _, m := range members {
			for name := range r.units[m].Global.Decls {
				g[name] = true
			}
		}
		compGlobals[ci] = g
	}

	// Closure per component, memoized over the condensation DAG.
	memo := make(map[int]map[string]bool, len(sccs))
	var visible func(ci int) map[string]bool
	visible = func(ci int) map[string]bool {
		if v, ok := memo[ci]; ok {
			return v
		}
		v := make(map[string]bool)
		memo[ci] = v // set before recursing; the DAG has no cycles anyway
		for name := range compGlobals[ci] {
			v[name] = true
		}
		for ct := range compEdges[ci] {
			for name := range visible(ct) {
				v[name] = true
			}
		}
		return v
	}

	out := make(map[string]map[string]bool, len(r.units))
	for name := range r.units {
		out[name] = visible(sccOf[name])
	}
	return out
}

// tarjan computes strongly-connected components of the import graph.
func (r *Resolver) tarjan() (sccs [][]string, sccOf map[string]int) {
	sccOf = make(map[string]int, len(r.units))

	index := make(map[string]int)
	low := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	next := 0

	names := make([]string, 0, len(r.units))
	for n := range r.units {
		names = append(names, n)
	}
	sort.Strings(names)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range r.imports[v] {
			if _, ok := r.units[w]; !ok {
				continue // import of a unit that failed to parse or load
			}
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			ci := len(sccs)
			sccs = append(sccs, comp)
			for _, m := range comp {
				sccOf[m] = ci
			}
		}
	}

	for _, v := range names {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs, sccOf
}

// builtins are the runtime globals every unit sees.
var builtins = map[string]bool{
	"Array": true, "Boolean": true, "Date": true, "Error": true,
	"EvalError": true, "Function": true, "Infinity": true, "Math": true,
	"NaN": true, "Number": true, "Object": true, "RangeError": true,
	"ReferenceError": true, "RegExp": true, "String": true,
	"SyntaxError": true, "TypeError": true, "URIError": true,
	"undefined": true, "eval": true, "parseInt": true, "parseFloat": true,
	"isNaN": true, "isFinite": true, "decodeURI": true,
	"decodeURIComponent": true, "encodeURI": true,
	"encodeURIComponent": true, "escape": true, "unescape": true,
	"JSON": true,
	// Host objects commonly present in browser scripts.
	"window": true, "document": true, "navigator": true, "location": true,
	"history": true, "screen": true, "console": true, "alert": true,
	"confirm": true, "prompt": true, "setTimeout": true,
	"setInterval": true, "clearTimeout": true, "clearInterval": true,
	"XMLHttpRequest": true,
}
