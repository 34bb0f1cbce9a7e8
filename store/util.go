package store

func copyBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return buf
}
