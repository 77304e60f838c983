package arrays

import (
	"os"
	"sync"

	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/tempfile"
)

// fileArray is the file-backed realization of Array: n fixed-width records
// in a temp file, one per element, read and written through the batched
// double-buffered I/O of batch.go. width is chosen wide enough for every
// element at construction time; BigInt.Bytes()'s minimal encoding means
// zero-padding at the front never changes the decoded value.
type fileArray struct {
	file  *tempfile.File
	n     int
	width int

	widthFixed bool // true once ToByteTreeWidth has been called
	fixedWidth int
}

func recordWidth(vals []*bigint.BigInt) int {
	w := 1
	for _, v := range vals {
		if n := v.ByteLen(); n > w {
			w = n
		}
	}
	return w
}

func padTo(b []byte, w int) []byte {
	out := make([]byte, w)
	copy(out[w-len(b):], b)
	return out
}

func newFileArray(vals []*bigint.BigInt) (*fileArray, error) {
	f, err := tempfile.New("bigintarray")
	if err != nil {
		return nil, err
	}
	width := recordWidth(vals)
	a := &fileArray{file: f, n: len(vals), width: width}
	if err := a.writeAll(vals); err != nil {
		_ = f.Free()
		return nil, err
	}
	return a, nil
}

// writeAll drives the batch writer of §5 over vals, in chunks of
// recordBatchSize, blocking on each handoff per batchWriter's single-slot
// semantics.
func (a *fileArray) writeAll(vals []*bigint.BigInt) error {
	return a.file.Locked(os.O_RDWR|os.O_TRUNC, func(lf *lockedfile.File) error {
		bw := newBatchWriter(lf, lf.Sync)
		batch := make([][]byte, 0, recordBatchSize)
		for _, v := range vals {
			batch = append(batch, padTo(v.Bytes(), a.width))
			if len(batch) == recordBatchSize {
				if err := bw.WriteNext(batch); err != nil {
					return err
				}
				batch = make([][]byte, 0, recordBatchSize)
			}
		}
		if len(batch) > 0 {
			if err := bw.WriteNext(batch); err != nil {
				return err
			}
		}
		return bw.Close()
	})
}

// readAll drains the batch reader of §5 into a plain slice. The file stays
// locked for the duration, matching §5's "reads and writes to the same
// file-backed array must be serialized by the caller."
func (a *fileArray) readAll() ([]*bigint.BigInt, error) {
	out := make([]*bigint.BigInt, 0, a.n)
	err := a.file.Locked(os.O_RDONLY, func(lf *lockedfile.File) error {
		br := newBatchReader(lf, a.n, a.width)
		for {
			batch, err := br.Next()
			if err != nil {
				return err
			}
			if len(batch) == 0 {
				return nil
			}
			for _, rec := range batch {
				out = append(out, bigint.FromBytes(rec))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *fileArray) Size() int { return a.n }

func (a *fileArray) Get(i int) *bigint.BigInt {
	if i < 0 || i >= a.n {
		errs.Fatalf("arrays: index %d out of range [0,%d)", i, a.n)
	}
	var v *bigint.BigInt
	err := a.file.Locked(os.O_RDONLY, func(lf *lockedfile.File) error {
		buf := make([]byte, a.width)
		_, err := lf.ReadAt(buf, int64(i)*int64(a.width))
		if err != nil {
			return errs.Wrap(errs.IO, err, "arrays: get: short read")
		}
		v = bigint.FromBytes(buf)
		return nil
	})
	if err != nil {
		errs.Fatalf("arrays: get(%d): %v", i, err)
	}
	return v
}

// GetIterator streams the array through the batched reader of §5 lazily,
// one record at a time off each delivered batch, instead of materializing
// the whole sequence up front. The locked file stays open for the
// iterator's lifetime; Close releases it — cancelling the background
// producer first if iteration is abandoned before end-of-stream — and
// Next releases it itself on natural exhaustion.
func (a *fileArray) GetIterator() *Iterator {
	lf, err := lockedfile.OpenFile(a.file.Path(), os.O_RDONLY, 0o600)
	if err != nil {
		errs.Fatalf("arrays: getIterator: %v", err)
	}
	br := newBatchReader(lf, a.n, a.width)

	var (
		batch     [][]byte
		idx       int
		closeOnce sync.Once
	)
	closeFn := func() {
		closeOnce.Do(func() {
			br.Cancel()
			_ = lf.Close()
		})
	}
	return &Iterator{
		next: func() (*bigint.BigInt, bool) {
			for idx >= len(batch) {
				b, err := br.Next()
				if err != nil {
					closeFn()
					errs.Fatalf("arrays: getIterator: %v", err)
				}
				if len(b) == 0 {
					closeFn()
					return nil, false
				}
				batch = b
				idx = 0
			}
			v := bigint.FromBytes(batch[idx])
			idx++
			return v, true
		},
		close: closeFn,
	}
}

func (a *fileArray) materialize() []*bigint.BigInt {
	vals, err := a.readAll()
	if err != nil {
		errs.Fatalf("arrays: materialize: %v", err)
	}
	return vals
}

func (a *fileArray) fromSlice(out []*bigint.BigInt) (Array, error) {
	return newFileArray(out)
}

func (a *fileArray) otherVals(o Array) []*bigint.BigInt {
	if of, ok := o.(*fileArray); ok {
		return of.materialize()
	}
	return materialize(o)
}

func (a *fileArray) CopyOfRange(lo, hi int) (Array, error) {
	out, err := sliceCopyOfRange(a.materialize(), lo, hi)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) Permute(table IndexMapper) (Array, error) {
	out, err := slicePermute(a.materialize(), table)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) Extract(mask []bool) (Array, error) {
	out, err := sliceExtract(a.materialize(), mask)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) ShiftPush(v *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceShiftPush(a.materialize(), v))
}

func (a *fileArray) ModAdd(o Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModAdd(a.materialize(), a.otherVals(o), m)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) ModNeg(m *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceModNeg(a.materialize(), m))
}

func (a *fileArray) ModMulArray(o Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModMulArray(a.materialize(), a.otherVals(o), m)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) ModMulScalar(v, m *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceModMulScalar(a.materialize(), v, m))
}

func (a *fileArray) ModInv(m *bigint.BigInt) (Array, error) {
	out, err := sliceModInv(a.materialize(), m)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) ModPowArray(exps Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModPowArray(a.materialize(), a.otherVals(exps), m)
	if err != nil {
		return nil, err
	}
	return a.fromSlice(out)
}

func (a *fileArray) ModPowScalar(exp, m *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceModPowScalar(a.materialize(), exp, m))
}

func (a *fileArray) ModPowVariant(base, m *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceModPowVariant(a.materialize(), base, m))
}

func (a *fileArray) ModProd(m *bigint.BigInt) *bigint.BigInt {
	return sliceModProd(a.materialize(), m)
}

func (a *fileArray) ModProds(m *bigint.BigInt) (Array, error) {
	return a.fromSlice(sliceModProds(a.materialize(), m))
}

func (a *fileArray) ModSum(m *bigint.BigInt) *bigint.BigInt {
	return sliceModSum(a.materialize(), m)
}

func (a *fileArray) ModPowProd(exps Array, m *bigint.BigInt, maxExpBits int) (*bigint.BigInt, error) {
	return sliceModPowProd(a.materialize(), a.otherVals(exps), m, maxExpBits)
}

func (a *fileArray) ModInnerProduct(o Array, m *bigint.BigInt) (*bigint.BigInt, error) {
	return sliceModInnerProduct(a.materialize(), a.otherVals(o), m)
}

func (a *fileArray) QuadraticResidues(p *bigint.BigInt) bool {
	return sliceQuadraticResidues(a.materialize(), p)
}

func (a *fileArray) ModRecLin(other Array, m *bigint.BigInt) (Array, *bigint.BigInt, error) {
	out, last, err := sliceModRecLin(a.materialize(), a.otherVals(other), m)
	if err != nil {
		return nil, nil, err
	}
	res, err := a.fromSlice(out)
	if err != nil {
		return nil, nil, err
	}
	return res, last, nil
}

func (a *fileArray) Equals(o Array) bool { return sliceEquals(a.materialize(), a.otherVals(o)) }

func (a *fileArray) EqualsAll(v *bigint.BigInt) bool {
	return sliceEqualsAll(a.materialize(), v)
}

func (a *fileArray) CompareTo(o Array) int {
	return sliceCompareTo(a.materialize(), a.otherVals(o))
}

func (a *fileArray) ToByteTree() *bytetree.ByteTree { return sliceToByteTree(a.materialize()) }

func (a *fileArray) ToByteTreeWidth(w int) (*bytetree.ByteTree, error) {
	if a.widthFixed && a.fixedWidth != w {
		return nil, errs.New(errs.Fatal, "arrays: attempt to re-set the expected byte length to a different width")
	}
	vals := a.materialize()
	t, err := sliceToByteTreeWidth(vals, w)
	if err != nil {
		return nil, err
	}
	a.widthFixed = true
	a.fixedWidth = w
	if w != a.width {
		// Rewrite the backing file at the new fixed width, per §4.2: "For
		// the file-backed array, this rewrites the underlying file if the
		// width changes."
		if err := a.file.Locked(os.O_RDWR|os.O_TRUNC, func(lf *lockedfile.File) error {
			bw := newBatchWriter(lf, lf.Sync)
			batch := make([][]byte, 0, recordBatchSize)
			for _, v := range vals {
				batch = append(batch, padTo(v.Bytes(), w))
				if len(batch) == recordBatchSize {
					if err := bw.WriteNext(batch); err != nil {
						return err
					}
					batch = make([][]byte, 0, recordBatchSize)
				}
			}
			if len(batch) > 0 {
				if err := bw.WriteNext(batch); err != nil {
					return err
				}
			}
			return bw.Close()
		}); err != nil {
			return nil, err
		}
		a.width = w
	}
	return t, nil
}

func (a *fileArray) Free() error { return a.file.Free() }
