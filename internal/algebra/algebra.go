// Package algebra defines the two capability sets spec.md's design notes
// (§9) replace the Java abstract-class tower with: the ring capability set
// {zero, one, add, neg, mul, inv, fromBytes, serialize, randomElement} and
// the group capability set {one, mul, inv, exp(scalar), encode/decode,
// serialize, randomElement, contains}. internal/field and internal/group
// implement Ring/Element and Group/GroupElement respectively;
// internal/ecgroup implements Group/GroupElement a second time over a
// different representation; internal/product composes either set
// component-wise without knowing which concrete realization it is
// composing.
package algebra

import (
	"io"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
)

// Element is the ring capability set: the exponent/field side of the
// tower.
type Element interface {
	Add(Element) (Element, error)
	Neg() Element
	Mul(Element) (Element, error)
	Inv() (Element, error)
	Equal(Element) bool
	ToByteTree() *bytetree.ByteTree
	Ring() Ring
}

// Ring is the structure owning Element values.
type Ring interface {
	Zero() Element
	One() Element
	Order() *bigint.BigInt
	ByteLength() int
	ElementFromBytes(b []byte) (Element, error)
	RandomElement(rs io.Reader) (Element, error)
	Equal(Ring) bool
	Name() string
}

// GroupElement is the group capability set.
type GroupElement interface {
	Mul(GroupElement) (GroupElement, error)
	Inv() GroupElement
	Exp(exp Element) (GroupElement, error)
	ExpInt(exp *bigint.BigInt) (GroupElement, error)
	Equal(GroupElement) bool
	ToByteTree() *bytetree.ByteTree
	Group() Group
}

// Group is the structure owning GroupElement values.
type Group interface {
	Identity() GroupElement
	StandardGenerator() GroupElement
	ExponentRing() Ring
	Encode(msg []byte) (GroupElement, error)
	Decode(e GroupElement) ([]byte, error)
	EncodeLength() int
	Contains(e GroupElement) bool
	ElementFromByteTree(t *bytetree.ByteTree, safe bool) (GroupElement, error)
	RandomElement(rs io.Reader) (GroupElement, error)
	Equal(Group) bool
	ByteLength() int
	Name() string

	// Threshold accessors: per spec.md §3/§5, exponentiation and
	// multiplicative work-splitting thresholds live on the group and are
	// mutated under a lock on that group.
	ExpThreadThreshold() int
	MulThreadThreshold() int
	SetExpThreadThreshold(int)
	SetMulThreadThreshold(int)
}
