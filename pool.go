package pst

import "sync"

var bufPool sync.Pool

// fetchBuffer returns a scratch buffer for page and block reads. Decoded
// structures must never retain it.
func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}
