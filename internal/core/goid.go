package core

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutinePrefix is the header runtime.Stack prints before the goroutine
// number.
var goroutinePrefix = []byte("goroutine ")

// curGoroutineID extracts the current goroutine's ID from the runtime.Stack
// header. The runtime deliberately exposes no API for this; parsing the
// stack header is the established workaround (x/net/http2 does the same).
// Only used for the fail-fast concurrency check, never for correctness.
func curGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, goroutinePrefix)

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}

	return gid
}
