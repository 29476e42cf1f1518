package tdms

// rawDataIndexID is an integer handle into the rawDataIndexArena. Raw-data
// index records are referenced from many segment-object entries and from the
// per-object most-recent-index cache; owning them in one append-only arena
// and referring to them by handle sidesteps shared ownership and the cyclic
// references a pointer-based design would otherwise invite.
type rawDataIndexID int

// rawDataIndex is a per-segment descriptor of one object's raw data:
// element type, element count, and total byte size. Byte size equals
// elementCount * elementType.Size() for fixed-width types; for string
// arrays it is carried explicitly on the wire.
type rawDataIndex struct {
	elementType  DataType
	elementCount uint64
	byteSize     uint64
}

// rawDataIndexArena interns distinct raw-data-index records for the
// lifetime of a reader.
type rawDataIndexArena struct {
	records []rawDataIndex
}

func newRawDataIndexArena() *rawDataIndexArena {
	return &rawDataIndexArena{}
}

func (a *rawDataIndexArena) intern(r rawDataIndex) rawDataIndexID {
	for i, rec := range a.records {
		if rec == r {
			return rawDataIndexID(i)
		}
	}
	id := rawDataIndexID(len(a.records))
	a.records = append(a.records, r)
	return id
}

func (a *rawDataIndexArena) get(id rawDataIndexID) rawDataIndex {
	return a.records[id]
}
