package decoder

import (
	"strings"
	"sync"
)

// builderPool reuses *strings.Builder instances across frame decodes,
// adapted from the size-bucketed sync.Pool the teacher uses for its hot-path
// I/O buffers. A decoded frame's JSON text is typically a few hundred bytes
// to a few kilobytes; one bucket is enough since builders grow as needed.
// strings.Builder.Reset drops the backing array (the string returned by the
// previous String call still refers to it), so only the Builder value itself
// is reused, not its storage.
var builderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	// Don't hoard builders that grew unusually large for one outlier frame.
	const maxRetainedCap = 1 << 20
	if b.Cap() > maxRetainedCap {
		return
	}
	builderPool.Put(b)
}
