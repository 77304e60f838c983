// Package homomorphism implements the bilinear maps and homomorphisms of
// spec.md §4.9: a bilinear map B: F x G -> G restricts to a ring
// homomorphism F -> G by fixing the group argument, or to a group
// homomorphism G -> G by fixing the ring argument; w homomorphisms compose
// into one between a product ring/group with component-wise Map.
package homomorphism

import (
	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/product"
)

// RingHomomorphism is a structure-preserving map F -> G.
type RingHomomorphism interface {
	Map(r algebra.Element) (algebra.GroupElement, error)
}

// GroupHomomorphism is a structure-preserving map G -> G.
type GroupHomomorphism interface {
	Map(h algebra.GroupElement) (algebra.GroupElement, error)
}

// BilinearMap is B: F x G -> G, restrictable to either argument.
type BilinearMap interface {
	Map(r algebra.Element, h algebra.GroupElement) (algebra.GroupElement, error)
	RestrictRing(h algebra.GroupElement) RingHomomorphism
	RestrictGroup(r algebra.Element) GroupHomomorphism
}

// ExpMap is the exponentiation bilinear map of §4.9: map(r,h) = h^r. It is
// the only bilinear map named in the specification; a pairing-based map
// would need a second, pairing-friendly curve realization, which is out of
// scope for the group realizations this module ships (modular and
// edwards25519).
type ExpMap struct{}

func (ExpMap) Map(r algebra.Element, h algebra.GroupElement) (algebra.GroupElement, error) {
	return h.Exp(r)
}

func (ExpMap) RestrictRing(h algebra.GroupElement) RingHomomorphism { return ringHom{h: h} }

func (ExpMap) RestrictGroup(r algebra.Element) GroupHomomorphism { return groupHom{r: r} }

type ringHom struct{ h algebra.GroupElement }

func (rh ringHom) Map(r algebra.Element) (algebra.GroupElement, error) { return rh.h.Exp(r) }

type groupHom struct{ r algebra.Element }

func (gh groupHom) Map(h algebra.GroupElement) (algebra.GroupElement, error) { return h.Exp(gh.r) }

// ProductRingHomomorphism composes w ring homomorphisms F_i -> G_i into one
// homomorphism between the product ring and the product group, applying
// each component homomorphism to the matching factor.
type ProductRingHomomorphism struct {
	homs  []RingHomomorphism
	group *product.Group
}

// NewProductRingHomomorphism composes homs into one homomorphism whose
// codomain is the product of each factor homomorphism's own codomain
// group, as reported by applying each to its domain factor ring's Zero(),
// used only to learn the codomain's group reference.
func NewProductRingHomomorphism(domain *product.Ring, homs ...RingHomomorphism) (*ProductRingHomomorphism, error) {
	if len(homs) != domain.Width() {
		return nil, errs.New(errs.Domain, "product homomorphism: component count does not match ring width")
	}
	factors := domain.Factors()
	groups := make([]algebra.Group, len(homs))
	for i, f := range homs {
		el, err := f.Map(factors[i].Zero())
		if err != nil {
			return nil, err
		}
		groups[i] = el.Group()
	}
	return &ProductRingHomomorphism{homs: homs, group: product.NewGroup(groups...)}, nil
}

func (p *ProductRingHomomorphism) Map(r algebra.Element) (algebra.GroupElement, error) {
	pe, ok := r.(*product.Element)
	if !ok || len(pe.Components()) != len(p.homs) {
		return nil, errs.New(errs.Domain, "product homomorphism: wrong product shape")
	}
	comps := make([]algebra.GroupElement, len(p.homs))
	for i, h := range p.homs {
		c, err := h.Map(pe.Components()[i])
		if err != nil {
			return nil, err
		}
		comps[i] = c
	}
	return product.NewGroupElement(p.group, comps...)
}

// ProductGroupHomomorphism is the group-to-group analogue.
type ProductGroupHomomorphism struct {
	homs  []GroupHomomorphism
	group *product.Group
}

func NewProductGroupHomomorphism(domain *product.Group, homs ...GroupHomomorphism) (*ProductGroupHomomorphism, error) {
	if len(homs) != domain.Width() {
		return nil, errs.New(errs.Domain, "product homomorphism: component count does not match group width")
	}
	factors := domain.Factors()
	groups := make([]algebra.Group, len(homs))
	for i, h := range homs {
		el, err := h.Map(factors[i].Identity())
		if err != nil {
			return nil, err
		}
		groups[i] = el.Group()
	}
	return &ProductGroupHomomorphism{homs: homs, group: product.NewGroup(groups...)}, nil
}

func (p *ProductGroupHomomorphism) Map(h algebra.GroupElement) (algebra.GroupElement, error) {
	pe, ok := h.(*product.GroupElement)
	if !ok {
		return nil, errs.New(errs.Domain, "product homomorphism: operand is not a product group element")
	}
	comps := pe.Components()
	if len(comps) != len(p.homs) {
		return nil, errs.New(errs.Domain, "product homomorphism: wrong product shape")
	}
	out := make([]algebra.GroupElement, len(p.homs))
	for i, hom := range p.homs {
		c, err := hom.Map(comps[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return product.NewGroupElement(p.group, out...)
}
