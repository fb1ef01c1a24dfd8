package wire

import "bytes"

// DecodeFrame tries to cut one length-prefixed frame off the front of
// buf. It never consumes bytes it does not commit to: when more data is
// needed, buf is returned unmodified as rest.
//
//   - ok == true: frame is the payload, rest is what follows it in buf.
//   - ok == false, err == nil: not enough data yet.
//   - ok == false, err != nil: malformed or oversize input; close the
//     connection.
func DecodeFrame(buf []byte) (frame []byte, rest []byte, ok bool, err error) {
	r := bytes.NewReader(buf)
	length, err := ReadVarInt(r)
	if err != nil {
		// Not even a full VarInt buffered yet; that's not an error, just
		// more data needed, unless the VarInt itself was malformed.
		if err == ErrVarIntTooBig {
			return nil, buf, false, err
		}
		return nil, buf, false, nil
	}
	if length < 0 {
		return nil, buf, false, ErrMalformed
	}
	if int(length) > MaxFrameSize {
		return nil, buf, false, ErrOversize
	}
	consumedForLength := len(buf) - r.Len()
	need := consumedForLength + int(length)
	if len(buf) < need {
		return nil, buf, false, nil
	}
	frame = buf[consumedForLength:need]
	rest = buf[need:]
	return frame, rest, true, nil
}

// EncodeFrame prefixes payload with its VarInt length.
func EncodeFrame(payload []byte) []byte {
	prefix := VarInt(len(payload)).Encode()
	out := make([]byte, 0, len(prefix)+len(payload))
	out = append(out, prefix...)
	out = append(out, payload...)
	return out
}
