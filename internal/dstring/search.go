package dstring

import "bytes"

// FindFirst returns a view of the first occurrence of query in text.
// If query does not occur, the view has offset NotFound and length 0.
// An empty query matches at offset 0.
func FindFirst(text *String, query []byte) View {
	i := bytes.Index(text.Bytes(), query)
	if i < 0 {
		return View{src: text, gen: text.gen, off: NotFound}
	}
	return View{src: text, gen: text.gen, off: i, n: len(query)}
}

// ReplaceFirst returns a new String in which the first occurrence of query
// in text is replaced by repl. If query does not occur the result is a
// clone of text. text is never modified.
func ReplaceFirst(text *String, query, repl []byte) (*String, error) {
	if text.freed {
		return nil, ErrFreed
	}
	m := FindFirst(text, query)
	if !m.Found() {
		return text.Clone()
	}

	content := text.Bytes()
	prefix := content[:m.off]
	suffix := content[m.off+m.n:]

	s, err := create(0, text.options())
	if err != nil {
		return nil, err
	}
	if err := s.AddSpace(len(prefix) + len(repl) + len(suffix)); err != nil {
		s.Free()
		return nil, err
	}
	for _, part := range [][]byte{prefix, repl, suffix} {
		if err := s.Push(part); err != nil {
			s.Free()
			return nil, err
		}
	}
	return s, nil
}

// FindFirstByte returns the index of the first c in text, or -1.
func FindFirstByte(text *String, c byte) int {
	return bytes.IndexByte(text.Bytes(), c)
}

// FindLastByte returns the index of the last c in text, or -1.
// The scan runs from Len()-1 down to and including index 0.
func FindLastByte(text *String, c byte) int {
	b := text.Bytes()
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
