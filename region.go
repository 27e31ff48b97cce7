package pagemap

// Region is a read-only view into a subsection of a Map. It does not own
// the memory; the parent Map does, and the view goes stale when the parent
// is closed or consumed.
type Region struct {
	parent *Map
	offset int
	size   int
}

// Region creates a new view into the mapping.
func (m *Map) Region(offset, size int) (*Region, error) {
	if m.base.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset+size > len(m.base.data) {
		return nil, ErrOutOfBounds
	}
	return &Region{
		parent: m,
		offset: offset,
		size:   size,
	}, nil
}

// Bytes returns the byte slice for this region, or nil once the parent is
// closed.
func (r *Region) Bytes() []byte {
	if r.parent.base.closed.Load() {
		return nil
	}
	return r.parent.base.data[r.offset : r.offset+r.size]
}

// Len returns the size of the region in bytes.
func (r *Region) Len() int {
	return r.size
}

// Advise provides kernel hints for this region only.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.base.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.parent.base.data[r.offset:r.offset+r.size], pattern)
}
