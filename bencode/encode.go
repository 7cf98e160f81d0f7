package bencode

import "strconv"

// EncodeBytes encodes b as a byte string. The length prefix counts bytes, not
// characters.
func EncodeBytes(b []byte) []byte {
	r := make([]byte, 0, len(b)+4)
	r = strconv.AppendInt(r, int64(len(b)), 10)
	r = append(r, ':')
	return append(r, b...)
}

// EncodeInt encodes n as an integer.
func EncodeInt(n int64) []byte {
	r := []byte{'i'}
	r = strconv.AppendInt(r, n, 10)
	return append(r, 'e')
}

// EncodeList encodes a list whose elements are already encoded.
func EncodeList(items ...[]byte) []byte {
	r := []byte{'l'}
	for _, item := range items {
		r = append(r, item...)
	}
	return append(r, 'e')
}

// EncodeTagged encodes a single-entry dictionary mapping tag to an already
// encoded payload. Tagged records carry sum types across the wire.
func EncodeTagged(tag string, payload []byte) []byte {
	r := []byte{'d'}
	r = append(r, EncodeBytes([]byte(tag))...)
	r = append(r, payload...)
	return append(r, 'e')
}

// Marshal encodes a decoded value back to bytes.
func Marshal(v Value) []byte {
	switch v := v.(type) {
	case ByteString:
		return EncodeBytes(v)
	case Integer:
		return EncodeInt(int64(v))
	case List:
		items := make([][]byte, len(v))
		for i, x := range v {
			items[i] = Marshal(x)
		}
		return EncodeList(items...)
	case Dict:
		r := []byte{'d'}
		for _, p := range v {
			r = append(r, EncodeBytes(p.Key)...)
			r = append(r, Marshal(p.Value)...)
		}
		return append(r, 'e')
	}
	return nil
}
