// Package product implements the product ring and product group of
// spec.md §4.6: tuples of rings/groups closed under component-wise
// operations, with projection to index subsets, factorization back to
// components, and decomposition of outer-shaped arrays into inner-shaped
// arrays. It composes algebra.Ring/algebra.Group without knowing which
// concrete realization (field, modular group, EC group, or a nested
// product) it is composing — the sum-type replacement for the Java
// tower's runtime downcasts described in spec.md §9.
package product

import (
	"io"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// Ring is a tuple of factor rings.
type Ring struct {
	factors []algebra.Ring
}

// NewRing builds a product ring over an ordered list of factors.
func NewRing(factors ...algebra.Ring) *Ring {
	if len(factors) == 0 {
		errs.Fatalf("product.NewRing: empty factor list")
	}
	return &Ring{factors: factors}
}

// Width is the number of factors (not the algebraic dimension).
func (r *Ring) Width() int { return len(r.factors) }

// Factors returns the ordered factor list.
func (r *Ring) Factors() []algebra.Ring { return r.factors }

// IsPower reports whether all factors are equal, per §3's data-model note.
func (r *Ring) IsPower() bool {
	for i := 1; i < len(r.factors); i++ {
		if !r.factors[0].Equal(r.factors[i]) {
			return false
		}
	}
	return true
}

func (r *Ring) Name() string { return "ProductRing" }

func (r *Ring) Order() *bigint.BigInt {
	errs.Fatalf("product.Ring: Order() has no single value for a non-power product ring")
	return nil
}

func (r *Ring) ByteLength() int {
	n := 0
	for _, f := range r.factors {
		n += f.ByteLength()
	}
	return n
}

func (r *Ring) Zero() algebra.Element { return r.broadcastIdentity(true) }
func (r *Ring) One() algebra.Element  { return r.broadcastIdentity(false) }

func (r *Ring) broadcastIdentity(zero bool) algebra.Element {
	els := make([]algebra.Element, len(r.factors))
	for i, f := range r.factors {
		if zero {
			els[i] = f.Zero()
		} else {
			els[i] = f.One()
		}
	}
	return &Element{ring: r, comps: els}
}

// ElementFromBytes reads a product element from a flat concatenation of
// each factor's fixed-width serialization.
func (r *Ring) ElementFromBytes(b []byte) (algebra.Element, error) {
	els := make([]algebra.Element, len(r.factors))
	off := 0
	for i, f := range r.factors {
		w := f.ByteLength()
		if off+w > len(b) {
			return nil, errs.New(errs.Format, "product ring element: truncated input")
		}
		el, err := f.ElementFromBytes(b[off : off+w])
		if err != nil {
			return nil, err
		}
		els[i] = el
		off += w
	}
	return &Element{ring: r, comps: els}, nil
}

func (r *Ring) RandomElement(rs io.Reader) (algebra.Element, error) {
	els := make([]algebra.Element, len(r.factors))
	for i, f := range r.factors {
		el, err := f.RandomElement(rs)
		if err != nil {
			return nil, err
		}
		els[i] = el
	}
	return &Element{ring: r, comps: els}, nil
}

func (r *Ring) Equal(other algebra.Ring) bool {
	o, ok := other.(*Ring)
	if !ok || len(o.factors) != len(r.factors) {
		return false
	}
	for i := range r.factors {
		if !r.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// Project returns the product of the factors selected by mask, or the
// single factor itself if only one is selected.
func (r *Ring) Project(mask []bool) (algebra.Ring, error) {
	if len(mask) != len(r.factors) {
		return nil, errs.New(errs.Domain, "project: mask length does not match product width")
	}
	var sel []algebra.Ring
	for i, keep := range mask {
		if keep {
			sel = append(sel, r.factors[i])
		}
	}
	if len(sel) == 0 {
		return nil, errs.New(errs.Domain, "project: empty projection")
	}
	if len(sel) == 1 {
		return sel[0], nil
	}
	return NewRing(sel...), nil
}

// Element is a tuple, one component per factor.
type Element struct {
	ring  *Ring
	comps []algebra.Element
}

// NewElement builds a product element from exactly ring.Width() components.
func NewElement(ring *Ring, comps ...algebra.Element) (*Element, error) {
	if len(comps) != ring.Width() {
		return nil, errs.New(errs.Domain, "product element: wrong number of components")
	}
	return &Element{ring: ring, comps: comps}, nil
}

func (e *Element) Ring() algebra.Ring { return e.ring }

// Components returns the per-factor values.
func (e *Element) Components() []algebra.Element { return e.comps }

// dispatch applies op component-wise against other if other has the same
// product shape, otherwise broadcasts other to every component.
func (e *Element) dispatch(other algebra.Element, op func(a, b algebra.Element) (algebra.Element, error)) (algebra.Element, error) {
	if po, ok := other.(*Element); ok && e.ring.Equal(po.ring) {
		out := make([]algebra.Element, len(e.comps))
		for i := range e.comps {
			r, err := op(e.comps[i], po.comps[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &Element{ring: e.ring, comps: out}, nil
	}
	out := make([]algebra.Element, len(e.comps))
	for i := range e.comps {
		r, err := op(e.comps[i], other)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &Element{ring: e.ring, comps: out}, nil
}

func (e *Element) Add(o algebra.Element) (algebra.Element, error) {
	return e.dispatch(o, algebra.Element.Add)
}

func (e *Element) Mul(o algebra.Element) (algebra.Element, error) {
	return e.dispatch(o, algebra.Element.Mul)
}

func (e *Element) Neg() algebra.Element {
	out := make([]algebra.Element, len(e.comps))
	for i, c := range e.comps {
		out[i] = c.Neg()
	}
	return &Element{ring: e.ring, comps: out}
}

func (e *Element) Inv() (algebra.Element, error) {
	out := make([]algebra.Element, len(e.comps))
	for i, c := range e.comps {
		r, err := c.Inv()
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &Element{ring: e.ring, comps: out}, nil
}

func (e *Element) Equal(o algebra.Element) bool {
	po, ok := o.(*Element)
	if !ok || len(po.comps) != len(e.comps) {
		return false
	}
	for i := range e.comps {
		if !e.comps[i].Equal(po.comps[i]) {
			return false
		}
	}
	return true
}

// ToByteTree serializes as an internal node of w children, each the
// serialization of the respective factor component, per §4.6.
func (e *Element) ToByteTree() *bytetree.ByteTree {
	children := make([]*bytetree.ByteTree, len(e.comps))
	for i, c := range e.comps {
		children[i] = c.ToByteTree()
	}
	return bytetree.Node(children...)
}

// Decompose transposes an array of product elements of identical shape
// into one array per factor (w x n), dispatching exponentiation and other
// per-component work by factor.
func Decompose(els []*Element) ([][]algebra.Element, error) {
	if len(els) == 0 {
		return nil, errs.New(errs.Domain, "decompose: empty array")
	}
	w := len(els[0].comps)
	out := make([][]algebra.Element, w)
	for j := 0; j < w; j++ {
		out[j] = make([]algebra.Element, len(els))
	}
	for i, el := range els {
		if len(el.comps) != w {
			return nil, errs.New(errs.Domain, "decompose: ragged product shape")
		}
		for j := 0; j < w; j++ {
			out[j][i] = el.comps[j]
		}
	}
	return out, nil
}
