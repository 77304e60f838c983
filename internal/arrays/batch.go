package arrays

import (
	"io"
	"sync"

	"github.com/arithmos/vcore/internal/errs"
)

// recordBatchSize is the fixed batch size of §5's background batch I/O:
// "a fixed-size pool ... filling a bounded queue (capacity 2) with
// fixed-size batches." Tuned loosely for typical disk block sizes relative
// to the handful-of-hundred-byte records a BigInt leaf occupies.
const recordBatchSize = 256

// batchReader drives the double-buffered producer/single-consumer reader
// of §5: a background goroutine fills a capacity-2 queue of fixed-size
// batches of width-byte records; an empty batch is the end-of-stream
// sentinel. Cancel stops the producer at its next batch boundary or
// channel send — whichever it reaches first — and blocks until the
// producer goroutine has actually exited, so a caller that abandons
// iteration early (Iterator.Close) can safely release the underlying file
// immediately afterward without racing the producer's last read.
type batchReader struct {
	ch       chan [][]byte
	errc     chan error
	cancel   chan struct{}
	done     chan struct{}
	cancelOn sync.Once
}

func newBatchReader(rf io.ReaderAt, n, width int) *batchReader {
	r := &batchReader{
		ch:     make(chan [][]byte, 2),
		errc:   make(chan error, 1),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		buf := make([]byte, width)
		batch := make([][]byte, 0, recordBatchSize)
		for i := 0; i < n; i++ {
			select {
			case <-r.cancel:
				return
			default:
			}
			if _, err := rf.ReadAt(buf, int64(i)*int64(width)); err != nil {
				select {
				case r.errc <- errs.Wrap(errs.IO, err, "batch reader: short read"):
				case <-r.cancel:
				}
				return
			}
			rec := make([]byte, width)
			copy(rec, buf)
			batch = append(batch, rec)
			if len(batch) == recordBatchSize {
				select {
				case r.ch <- batch:
				case <-r.cancel:
					return
				}
				batch = make([][]byte, 0, recordBatchSize)
			}
		}
		if len(batch) > 0 {
			select {
			case r.ch <- batch:
			case <-r.cancel:
				return
			}
		}
		select {
		case r.ch <- nil: // end-of-stream sentinel
		case <-r.cancel:
		}
	}()
	return r
}

// Next blocks for the next batch, returning nil at end of stream.
func (r *batchReader) Next() ([][]byte, error) {
	select {
	case err := <-r.errc:
		return nil, err
	case batch := <-r.ch:
		return batch, nil
	}
}

// Cancel stops the producer at its next batch boundary or channel send,
// per §5's cancellation model, and blocks until the producer goroutine has
// exited.
func (r *batchReader) Cancel() {
	r.cancelOn.Do(func() { close(r.cancel) })
	<-r.done
}

// batchWriter is the write-side dual: a single-slot synchronous channel, so
// writeNext blocks until the prior batch has actually been written (the
// worker only re-receives once it has finished), matching §9's "a spin-wait
// on a boolean active ... in a disciplined implementation this is a
// single-slot synchronous channel."
type batchWriter struct {
	jobs chan [][]byte
	errc chan error
	done chan struct{}
}

func newBatchWriter(wf io.WriterAt, sync func() error) *batchWriter {
	w := &batchWriter{
		jobs: make(chan [][]byte),
		errc: make(chan error, 1),
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		var offset int64
		for batch := range w.jobs {
			for _, rec := range batch {
				if _, err := wf.WriteAt(rec, offset); err != nil {
					w.errc <- errs.Wrap(errs.IO, err, "batch writer: write failed")
					return
				}
				offset += int64(len(rec))
			}
		}
		if sync != nil {
			if err := sync(); err != nil {
				w.errc <- errs.Wrap(errs.IO, err, "batch writer: flush failed")
			}
		}
	}()
	return w
}

// WriteNext hands off one batch, blocking until the worker has finished the
// previous one.
func (w *batchWriter) WriteNext(batch [][]byte) error {
	select {
	case err := <-w.errc:
		return err
	case w.jobs <- batch:
		return nil
	}
}

// Close blocks until the pending batch completes and the file is flushed,
// per §5.
func (w *batchWriter) Close() error {
	close(w.jobs)
	<-w.done
	select {
	case err := <-w.errc:
		return err
	default:
		return nil
	}
}
