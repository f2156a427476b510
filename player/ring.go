package player

// sampleRing is a fixed-capacity ring buffer of interleaved 16-bit samples.
// It is the exchange buffer between a slot's decoder and the drain loop;
// capacity is fixed at construction so the processing path never allocates.
type sampleRing struct {
	buf  []int16
	head int // next read index
	tail int // next write index
	size int // occupied samples
}

func newSampleRing(capacity int) sampleRing {
	return sampleRing{buf: make([]int16, capacity)}
}

// Len returns the number of buffered samples.
func (r *sampleRing) Len() int { return r.size }

// Free returns the remaining capacity in samples.
func (r *sampleRing) Free() int { return len(r.buf) - r.size }

// Cap returns the total capacity in samples.
func (r *sampleRing) Cap() int { return len(r.buf) }

// push copies as much of src as fits and returns the count stored.
func (r *sampleRing) push(src []int16) int {
	n := len(src)
	if free := r.Free(); n > free {
		n = free
	}

	for i := 0; i < n; i++ {
		r.buf[r.tail] = src[i]

		r.tail++
		if r.tail == len(r.buf) {
			r.tail = 0
		}
	}

	r.size += n

	return n
}

// pop moves up to len(dst) samples out of the ring and returns the count.
func (r *sampleRing) pop(dst []int16) int {
	n := len(dst)
	if n > r.size {
		n = r.size
	}

	for i := 0; i < n; i++ {
		dst[i] = r.buf[r.head]

		r.head++
		if r.head == len(r.buf) {
			r.head = 0
		}
	}

	r.size -= n

	return n
}

// reset empties the ring without releasing its storage.
func (r *sampleRing) reset() {
	r.head = 0
	r.tail = 0
	r.size = 0
}
