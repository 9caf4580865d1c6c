package dstring

// Push appends data, growing the buffer until it can hold the new content
// and its terminator. data may alias s's own content.
func (s *String) Push(data []byte) error {
	if s.freed {
		return ErrFreed
	}
	old, err := s.reserve(len(data))
	if err != nil {
		return err
	}
	// data is copied before old is released, so it may point into it.
	copy(s.buf[s.length:], data)
	s.length += len(data)
	s.buf[s.length] = 0
	s.release(old)
	return nil
}

// PushString appends str. It follows the same steps as Push but copies
// from the string directly, avoiding a []byte conversion.
func (s *String) PushString(str string) error {
	if s.freed {
		return ErrFreed
	}
	old, err := s.reserve(len(str))
	if err != nil {
		return err
	}
	copy(s.buf[s.length:], str)
	s.length += len(str)
	s.buf[s.length] = 0
	s.release(old)
	return nil
}

// PushByte appends a single byte.
func (s *String) PushByte(c byte) error {
	return s.Push([]byte{c})
}

// Write implements io.Writer.
func (s *String) Write(p []byte) (int, error) {
	if err := s.Push(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (s *String) WriteString(str string) (int, error) {
	if err := s.PushString(str); err != nil {
		return 0, err
	}
	return len(str), nil
}

// WriteByte implements io.ByteWriter.
func (s *String) WriteByte(c byte) error {
	return s.PushByte(c)
}
