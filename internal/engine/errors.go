package engine

import (
	"encoding/hex"
	"fmt"
)

// DecodeError reports that an input byte stream could not be decoded as
// an image. It carries diagnostic context: the total byte count and a
// hex sample of the leading bytes.
type DecodeError struct {
	ByteCount int
	Sample    []byte
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image (%d bytes, leading %q): %v",
		e.ByteCount, hex.EncodeToString(e.Sample), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedOpError reports a step whose operation name is not part of
// the plan vocabulary. It is fatal for the whole variant; plans must not
// silently degrade to no-ops for typos.
type UnsupportedOpError struct {
	Op    string
	Index int
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported operation %q at step %d", e.Op, e.Index)
}
