package pathutil

import "sync"

const (
	// Typical documents nest a handful of levels below a $ref site.
	pooledDepth = 16
	// Builders that grew past this are left to the GC.
	maxPooledDepth = 128
)

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, pooledDepth)}
	},
}

// Get returns an empty PathBuilder from the pool. Pair it with Put once the
// traversal that uses it is done.
func Get() *PathBuilder {
	p := builders.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put hands p back to the pool.
func Put(p *PathBuilder) {
	if p == nil || cap(p.segments) > maxPooledDepth {
		return
	}
	builders.Put(p)
}
