package pools

import (
	"math/bits"
	"sync"
)

const (
	minClassShift = 4  // 16 words, 1024 bits
	maxClassShift = 16 // 65536 words, 4M bits
	numClasses    = maxClassShift - minClassShift + 1
)

// WordPool pools zeroed []uint64 slices in power-of-two size classes.
type WordPool struct {
	classes [numClasses]sync.Pool
}

// NewWordPool creates a new word pool.
func NewWordPool() *WordPool {
	p := &WordPool{}
	for i := range p.classes {
		size := 1 << (minClassShift + i)
		p.classes[i].New = func() any {
			s := make([]uint64, size)
			return &s
		}
	}
	return p
}

// class returns the size class holding n words, or -1 when n is too large
// to pool.
func class(n int) int {
	if n <= 1<<minClassShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxClassShift {
		return -1
	}
	return shift - minClassShift
}

// Get returns a zeroed slice of length n.
func (p *WordPool) Get(n int) []uint64 {
	c := class(n)
	if c < 0 {
		return make([]uint64, n)
	}
	sp := p.classes[c].Get().(*[]uint64)
	return (*sp)[:n]
}

// Put clears s and returns it to the pool. Slices not obtained from Get are
// dropped unless their capacity is exactly a size class.
func (p *WordPool) Put(s []uint64) {
	c := cap(s)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	cl := class(c)
	if cl < 0 || 1<<(minClassShift+cl) != c {
		return
	}
	s = s[:c]
	clear(s)
	p.classes[cl].Put(&s)
}

var defaultWordPool = NewWordPool()

// GetWords returns a zeroed slice of n words from the default pool.
func GetWords(n int) []uint64 {
	return defaultWordPool.Get(n)
}

// PutWords returns a slice to the default pool.
func PutWords(s []uint64) {
	defaultWordPool.Put(s)
}
