package product

import (
	"io"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// Group is a tuple of factor groups, closed under component-wise mul,
// inv, exp per §4.6.
type Group struct {
	factors []algebra.Group

	expThreadThreshold int
	mulThreadThreshold int
}

// NewGroup builds a product group over an ordered list of factors.
func NewGroup(factors ...algebra.Group) *Group {
	if len(factors) == 0 {
		errs.Fatalf("product.NewGroup: empty factor list")
	}
	return &Group{factors: factors, expThreadThreshold: 100, mulThreadThreshold: 1000}
}

func (g *Group) Width() int                { return len(g.factors) }
func (g *Group) Factors() []algebra.Group  { return g.factors }
func (g *Group) Name() string              { return "ProductGroup" }
func (g *Group) ByteLength() int {
	n := 0
	for _, f := range g.factors {
		n += f.ByteLength()
	}
	return n
}

// IsPower reports whether all factors are equal.
func (g *Group) IsPower() bool {
	for i := 1; i < len(g.factors); i++ {
		if !g.factors[0].Equal(g.factors[i]) {
			return false
		}
	}
	return true
}

func (g *Group) ExpThreadThreshold() int     { return g.expThreadThreshold }
func (g *Group) MulThreadThreshold() int     { return g.mulThreadThreshold }
func (g *Group) SetExpThreadThreshold(v int) { g.expThreadThreshold = v }
func (g *Group) SetMulThreadThreshold(v int) { g.mulThreadThreshold = v }

func (g *Group) Equal(other algebra.Group) bool {
	o, ok := other.(*Group)
	if !ok || len(o.factors) != len(g.factors) {
		return false
	}
	for i := range g.factors {
		if !g.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ExponentRing returns the product of the per-factor exponent rings.
func (g *Group) ExponentRing() algebra.Ring {
	rings := make([]algebra.Ring, len(g.factors))
	for i, f := range g.factors {
		rings[i] = f.ExponentRing()
	}
	return NewRing(rings...)
}

func (g *Group) Identity() algebra.GroupElement {
	els := make([]algebra.GroupElement, len(g.factors))
	for i, f := range g.factors {
		els[i] = f.Identity()
	}
	return &GroupElement{group: g, comps: els}
}

func (g *Group) StandardGenerator() algebra.GroupElement {
	els := make([]algebra.GroupElement, len(g.factors))
	for i, f := range g.factors {
		els[i] = f.StandardGenerator()
	}
	return &GroupElement{group: g, comps: els}
}

func (g *Group) EncodeLength() int {
	min := -1
	for _, f := range g.factors {
		if min == -1 || f.EncodeLength() < min {
			min = f.EncodeLength()
		}
	}
	return min
}

func (g *Group) Encode(msg []byte) (algebra.GroupElement, error) {
	return nil, errs.New(errs.Domain, "encode is not defined directly on a product group; encode per factor")
}

func (g *Group) Decode(e algebra.GroupElement) ([]byte, error) {
	return nil, errs.New(errs.Domain, "decode is not defined directly on a product group; decode per factor")
}

func (g *Group) Contains(e algebra.GroupElement) bool {
	pe, ok := e.(*GroupElement)
	if !ok || len(pe.comps) != len(g.factors) {
		return false
	}
	for i, c := range pe.comps {
		if !g.factors[i].Contains(c) {
			return false
		}
	}
	return true
}

func (g *Group) ElementFromByteTree(t *bytetree.ByteTree, safe bool) (algebra.GroupElement, error) {
	if t.IsLeaf() || len(t.Children()) != len(g.factors) {
		return nil, errs.New(errs.Format, "product group element must be a node with one child per factor")
	}
	children := t.Children()
	comps := make([]algebra.GroupElement, len(g.factors))
	for i, f := range g.factors {
		c, err := f.ElementFromByteTree(children[i], safe)
		if err != nil {
			return nil, err
		}
		comps[i] = c
	}
	return &GroupElement{group: g, comps: comps}, nil
}

func (g *Group) RandomElement(rs io.Reader) (algebra.GroupElement, error) {
	comps := make([]algebra.GroupElement, len(g.factors))
	for i, f := range g.factors {
		c, err := f.RandomElement(rs)
		if err != nil {
			return nil, err
		}
		comps[i] = c
	}
	return &GroupElement{group: g, comps: comps}, nil
}

// Project returns the product of the factors selected by mask, or the
// single factor itself if only one is selected.
func (g *Group) Project(mask []bool) (algebra.Group, error) {
	if len(mask) != len(g.factors) {
		return nil, errs.New(errs.Domain, "project: mask length does not match product width")
	}
	var sel []algebra.Group
	for i, keep := range mask {
		if keep {
			sel = append(sel, g.factors[i])
		}
	}
	if len(sel) == 0 {
		return nil, errs.New(errs.Domain, "project: empty projection")
	}
	if len(sel) == 1 {
		return sel[0], nil
	}
	return NewGroup(sel...), nil
}

// GroupElement is a tuple, one component per factor group.
type GroupElement struct {
	group *Group
	comps []algebra.GroupElement
}

// NewGroupElement builds a product group element from exactly
// group.Width() components, the group-capability analogue of
// product.NewElement.
func NewGroupElement(group *Group, comps ...algebra.GroupElement) (*GroupElement, error) {
	if len(comps) != group.Width() {
		return nil, errs.New(errs.Domain, "product group element: wrong number of components")
	}
	return &GroupElement{group: group, comps: comps}, nil
}

func (e *GroupElement) Group() algebra.Group { return e.group }

// Components returns the per-factor values.
func (e *GroupElement) Components() []algebra.GroupElement { return e.comps }

func (e *GroupElement) Mul(o algebra.GroupElement) (algebra.GroupElement, error) {
	if po, ok := o.(*GroupElement); ok && e.group.Equal(po.group) {
		out := make([]algebra.GroupElement, len(e.comps))
		for i := range e.comps {
			r, err := e.comps[i].Mul(po.comps[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &GroupElement{group: e.group, comps: out}, nil
	}
	out := make([]algebra.GroupElement, len(e.comps))
	for i := range e.comps {
		r, err := e.comps[i].Mul(o)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &GroupElement{group: e.group, comps: out}, nil
}

func (e *GroupElement) Inv() algebra.GroupElement {
	out := make([]algebra.GroupElement, len(e.comps))
	for i, c := range e.comps {
		out[i] = c.Inv()
	}
	return &GroupElement{group: e.group, comps: out}
}

// Exp raises e to exponent, which is either a matching-shape product
// exponent (decomposed and applied factor-wise) or a scalar broadcast to
// every component, per §4.6.
func (e *GroupElement) Exp(exponent algebra.Element) (algebra.GroupElement, error) {
	if pexp, ok := exponent.(*Element); ok && len(pexp.comps) == len(e.comps) {
		out := make([]algebra.GroupElement, len(e.comps))
		for i := range e.comps {
			r, err := e.comps[i].Exp(pexp.comps[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &GroupElement{group: e.group, comps: out}, nil
	}
	out := make([]algebra.GroupElement, len(e.comps))
	for i := range e.comps {
		r, err := e.comps[i].Exp(exponent)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &GroupElement{group: e.group, comps: out}, nil
}

func (e *GroupElement) ExpInt(exp *bigint.BigInt) (algebra.GroupElement, error) {
	out := make([]algebra.GroupElement, len(e.comps))
	for i := range e.comps {
		r, err := e.comps[i].ExpInt(exp)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &GroupElement{group: e.group, comps: out}, nil
}

func (e *GroupElement) Equal(o algebra.GroupElement) bool {
	po, ok := o.(*GroupElement)
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

// ToByteTree serializes as an internal node of w children.
func (e *GroupElement) ToByteTree() *bytetree.ByteTree {
	children := make([]*bytetree.ByteTree, len(e.comps))
	for i, c := range e.comps {
		children[i] = c.ToByteTree()
	}
	return bytetree.Node(children...)
}

// DecomposeGroup transposes an array of product group elements of
// identical shape into one array per factor, used to dispatch array
// exponentiation by component.
func DecomposeGroup(els []*GroupElement) ([][]algebra.GroupElement, error) {
	if len(els) == 0 {
		return nil, errs.New(errs.Domain, "decompose: empty array")
	}
	w := len(els[0].comps)
	out := make([][]algebra.GroupElement, w)
	for j := 0; j < w; j++ {
		out[j] = make([]algebra.GroupElement, len(els))
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
