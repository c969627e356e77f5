package gateway

// DefaultChunkSize is the transfer chunk handed to the response writer.
const DefaultChunkSize = 1 << 20

// ChunkReader exposes a downloaded payload as a finite, non-restartable
// sequence of fixed-size chunks. The payload transiently resides in memory
// in full; true incremental download-and-forward with a bounded buffer is
// the production-grade replacement for large files.
type ChunkReader struct {
	data      []byte
	off       int
	chunkSize int
}

func NewChunkReader(data []byte, chunkSize int) *ChunkReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ChunkReader{data: data, chunkSize: chunkSize}
}

// Next returns the next chunk and whether one was produced. Once exhausted
// it keeps returning (nil, false); there is no rewind.
func (c *ChunkReader) Next() ([]byte, bool) {
	if c.off >= len(c.data) {
		return nil, false
	}
	end := c.off + c.chunkSize
	if end > len(c.data) {
		end = len(c.data)
	}
	chunk := c.data[c.off:end]
	c.off = end
	return chunk, true
}

// Len reports the total payload size in bytes.
func (c *ChunkReader) Len() int { return len(c.data) }
