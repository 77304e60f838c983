package group

import (
	"io"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/errs"
)

// ToByteTree serializes the group's parameters per §6's "Group parameter
// encoding": a node with four children — modulus, order, generator,
// encoding tag (one-byte leaf).
func (grp *ModPGroup) ToByteTree() *bytetree.ByteTree {
	return bytetree.Node(
		bytetree.Leaf(grp.p.Bytes()),
		bytetree.Leaf(grp.q.Bytes()),
		bytetree.Leaf(grp.g.Bytes()),
		bytetree.Leaf([]byte{byte(grp.scheme)}),
	)
}

// FromByteTree reconstructs a ModPGroup from its parameter encoding,
// re-validating every constructor invariant.
func FromByteTree(t *bytetree.ByteTree, certainty int, rs io.Reader) (*ModPGroup, error) {
	if t.IsLeaf() || len(t.Children()) != 4 {
		return nil, errs.New(errs.Format, "group parameter tree must be a 4-child node")
	}
	children := t.Children()
	for _, c := range children {
		if !c.IsLeaf() {
			return nil, errs.New(errs.Format, "group parameter fields must be leaves")
		}
	}
	p := bigint.FromBytes(children[0].Data())
	q := bigint.FromBytes(children[1].Data())
	g := bigint.FromBytes(children[2].Data())
	tagBytes := children[3].Data()
	if len(tagBytes) != 1 {
		return nil, errs.New(errs.Format, "encoding tag leaf must be one byte")
	}
	scheme, err := encoding.ParseScheme(tagBytes[0])
	if err != nil {
		return nil, err
	}
	return New(p, q, g, scheme, certainty, rs)
}
