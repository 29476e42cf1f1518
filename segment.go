package tdms

import (
	"encoding/binary"
	"io"

	"go.uber.org/zap"
)

const leadInSize = 28

var tdmsMagic = [4]byte{'T', 'D', 'S', 'm'}

const (
	rawIndexNoData          uint32 = 0xFFFFFFFF
	rawIndexMatchesPrevious uint32 = 0x00000000
	rawIndexFormatChanging  uint32 = 0x00001269
	rawIndexDigitalLine     uint32 = 0x0000126A
)

// segmentObject is one entry in a segment's object list: an interned object
// id plus, if the object carries raw data this segment, the arena handle of
// its raw-data-index record.
type segmentObject struct {
	id      objectID
	index   rawDataIndexID
	hasData bool
}

// segment is one parsed TDMS segment: its lead-in facts, the ordered object
// list that fixes channel order within the chunk, and the chunk geometry
// derived from the lead-in offsets.
type segment struct {
	toc                  tocFlags
	order                binary.ByteOrder
	rawDataPosition      int64
	nextSegmentPosition  int64
	objects              []segmentObject
	chunkWidth           uint64
	repetitions          uint64
}

func (s *segment) hasRawData() bool {
	return s.toc.has(tocHasRawData)
}

func (s *segment) isInterleaved() bool {
	return s.toc.has(tocInterleavedData)
}

// cumulativeEntry is the reader's running total of values for one channel
// across every segment it has appeared in with data. The element type is
// frozen on first appearance.
type cumulativeEntry struct {
	elementType DataType
	count       uint64
}

type propertyList struct {
	items []Property
}

func (pl *propertyList) upsert(p Property) {
	for i := range pl.items {
		if pl.items[i].Name == p.Name {
			pl.items[i] = p
			return
		}
	}
	pl.items = append(pl.items, p)
}

// scanner owns the single pass through a TDMS stream's segments that builds
// every piece of state the public facade (directory.go) and the data
// extractor (extractor.go) need. This is the core of the reader: once it
// finishes, every later operation is a lookup against its output, never a
// re-parse of the stream.
type scanner struct {
	src  io.ReadSeeker
	size int64
	log  *zap.Logger

	paths      *pathRegistry
	arena      *rawDataIndexArena
	properties *objectMap[*propertyList]
	mostRecent *objectMap[rawDataIndexID]
	cumulative *objectMap[*cumulativeEntry]
	dataSegs   *objectMap[[]int]

	segments []segment
}

func newScanner(src io.ReadSeeker, size int64, log *zap.Logger) *scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &scanner{
		src:        src,
		size:       size,
		log:        log,
		paths:      newPathRegistry(),
		arena:      newRawDataIndexArena(),
		properties: newObjectMap[*propertyList](),
		mostRecent: newObjectMap[rawDataIndexID](),
		cumulative: newObjectMap[*cumulativeEntry](),
		dataSegs:   newObjectMap[[]int](),
	}
}

// scan performs the single metadata pass described in spec.md §4.6.
func (s *scanner) scan() error {
	if _, err := s.src.Seek(0, io.SeekStart); err != nil {
		return ioErrorf(err)
	}

	position := int64(0)
	var prevObjects []segmentObject
	havePrev := false

	for {
		eof, err := s.seekAndCheckEOF(position)
		if err != nil {
			return err
		}
		if eof {
			return nil
		}

		seg, err := s.readSegment(position, prevObjects, havePrev)
		if err != nil {
			return err
		}

		if err := s.updateCumulative(seg); err != nil {
			return err
		}
		s.recordDataSegments(len(s.segments), seg)

		s.segments = append(s.segments, *seg)
		prevObjects = seg.objects
		havePrev = true

		s.log.Debug("parsed segment",
			zap.Int("index", len(s.segments)-1),
			zap.Int64("position", position),
			zap.Int("objects", len(seg.objects)),
			zap.Uint64("repetitions", seg.repetitions),
		)

		position = seg.nextSegmentPosition
	}
}

// seekAndCheckEOF seeks to position and attempts the 4-byte magic read. A
// clean end of file (0 bytes available) is reported via eof=true, nil. Any
// other short read or a magic mismatch is fatal, per spec.md's failure
// semantics: "The only tolerated short read is exactly 0 bytes at the start
// of a candidate segment."
func (s *scanner) seekAndCheckEOF(position int64) (eof bool, err error) {
	if _, err := s.src.Seek(position, io.SeekStart); err != nil {
		return false, ioErrorf(err)
	}

	var magic [4]byte
	n, err := io.ReadFull(s.src, magic[:])
	if err == io.EOF && n == 0 {
		return true, nil
	}
	if err != nil {
		return false, formatErrorf(position, "short read of segment magic bytes (%d of 4)", n)
	}
	if magic != tdmsMagic {
		return false, formatErrorf(position, "invalid segment magic bytes %v", magic)
	}
	return false, nil
}

// readSegment reads one segment's lead-in and, if present, its metadata
// block, starting just after the magic bytes already consumed by
// seekAndCheckEOF.
func (s *scanner) readSegment(position int64, prevObjects []segmentObject, havePrev bool) (*segment, error) {
	tocBytes, err := readExact(s.src, 4)
	if err != nil {
		return nil, err
	}
	toc := tocFlags(binary.LittleEndian.Uint32(tocBytes))

	order := byteOrderFor(toc)
	d := newDecoder(s.src, order)

	if _, err := d.readI32(); err != nil { // version, unused beyond presence
		return nil, err
	}
	nextOffset, err := d.readU64()
	if err != nil {
		return nil, err
	}
	rawOffset, err := d.readU64()
	if err != nil {
		return nil, err
	}

	seg := &segment{
		toc:                 toc,
		order:               order,
		rawDataPosition:     position + leadInSize + int64(rawOffset),
		nextSegmentPosition: position + leadInSize + int64(nextOffset),
	}

	switch {
	case !toc.has(tocHasMetadata):
		if havePrev {
			seg.objects = prevObjects
		}
	default:
		declared, newList, err := s.readMetadataBlock(d, toc, position)
		if err != nil {
			return nil, err
		}
		if newList {
			seg.objects = declared
		} else {
			seg.objects = mergeObjectLists(prevObjects, declared)
		}
	}

	if toc.has(tocDAQmxRawData) {
		return nil, formatErrorf(position, "DAQmx raw data is not supported")
	}

	seg.chunkWidth = chunkWidthOf(seg.objects, s.arena)
	if seg.chunkWidth == 0 {
		seg.repetitions = 0
	} else {
		span := seg.nextSegmentPosition - seg.rawDataPosition
		if span < 0 {
			return nil, formatErrorf(position, "segment raw data region has negative length")
		}
		seg.repetitions = uint64(span) / seg.chunkWidth
	}

	return seg, nil
}

func chunkWidthOf(objects []segmentObject, arena *rawDataIndexArena) uint64 {
	var width uint64
	for _, o := range objects {
		if o.hasData {
			width += arena.get(o.index).byteSize
		}
	}
	return width
}

// mergeObjectLists implements spec.md §4.6.2: start from the previous
// segment's object list, then replace entries in place for objects declared
// again, appending any genuinely new ones. This keeps channel ordering
// stable across segments even when a later segment only redeclares a
// subset of objects.
func mergeObjectLists(prev []segmentObject, declared []segmentObject) []segmentObject {
	merged := make([]segmentObject, len(prev))
	copy(merged, prev)

	position := make(map[objectID]int, len(merged))
	for i, o := range merged {
		position[o.id] = i
	}

	for _, o := range declared {
		if idx, ok := position[o.id]; ok {
			merged[idx] = o
		} else {
			merged = append(merged, o)
			position[o.id] = len(merged) - 1
		}
	}

	return merged
}

func byteOrderFor(toc tocFlags) binary.ByteOrder {
	if toc.has(tocBigEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func readExact(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, ioErrorf(err)
	}
	return b, nil
}

// readMetadataBlock reads spec.md §4.6.1's object metadata record: a u32
// count followed by that many objects, each with a path, a raw-data-index
// header, and a property list. Returns the objects in declaration order and
// whether the segment's ToC set NewObjectList.
func (s *scanner) readMetadataBlock(d *decoder, toc tocFlags, segmentPosition int64) ([]segmentObject, bool, error) {
	count, err := d.readU32()
	if err != nil {
		return nil, false, err
	}

	objects := make([]segmentObject, 0, count)

	for i := uint32(0); i < count; i++ {
		obj, err := s.readOneObject(d, toc, segmentPosition)
		if err != nil {
			return nil, false, err
		}
		objects = append(objects, obj)
	}

	return objects, toc.has(tocNewObjectList), nil
}

func (s *scanner) readOneObject(d *decoder, toc tocFlags, segmentPosition int64) (segmentObject, error) {
	path, err := d.readString()
	if err != nil {
		return segmentObject{}, err
	}

	id, err := s.paths.intern(path)
	if err != nil {
		return segmentObject{}, err
	}

	header, err := d.readU32()
	if err != nil {
		return segmentObject{}, err
	}

	obj := segmentObject{id: id}

	switch header {
	case rawIndexNoData:
		// No data this segment; obj.hasData stays false.

	case rawIndexMatchesPrevious:
		prev, ok := s.mostRecent.get(id)
		if !ok {
			return segmentObject{}, formatErrorf(segmentPosition,
				"object %q: raw data index matches previous but no prior index is cached", path)
		}
		obj.index = prev
		obj.hasData = true

	case rawIndexFormatChanging, rawIndexDigitalLine:
		return segmentObject{}, formatErrorf(segmentPosition,
			"object %q: DAQmx raw data (format-changing/digital-line scaler) is not supported", path)

	default:
		idx, err := s.readRawDataIndex(d, toc, path, segmentPosition)
		if err != nil {
			return segmentObject{}, err
		}
		handle := s.arena.intern(idx)
		s.mostRecent.set(id, handle)
		obj.index = handle
		obj.hasData = true
	}

	if err := s.readProperties(d, id); err != nil {
		return segmentObject{}, err
	}

	return obj, nil
}

func (s *scanner) readRawDataIndex(d *decoder, toc tocFlags, path string, segmentPosition int64) (rawDataIndex, error) {
	typeTag, err := d.readU32()
	if err != nil {
		return rawDataIndex{}, err
	}
	if !validDataType(typeTag) {
		return rawDataIndex{}, formatErrorf(segmentPosition, "object %q: invalid type id 0x%X", path, typeTag)
	}
	elementType := DataType(typeTag)

	if elementType == DataTypeString && toc.has(tocInterleavedData) {
		return rawDataIndex{}, formatErrorf(segmentPosition,
			"object %q: interleaved segments cannot carry variable-width string data", path)
	}

	dimension, err := d.readU32()
	if err != nil {
		return rawDataIndex{}, err
	}
	if dimension != 1 {
		return rawDataIndex{}, formatErrorf(segmentPosition, "object %q: dimension must be 1, got %d", path, dimension)
	}

	elementCount, err := d.readU64()
	if err != nil {
		return rawDataIndex{}, err
	}

	var byteSize uint64
	if elementType == DataTypeString {
		byteSize, err = d.readU64()
		if err != nil {
			return rawDataIndex{}, err
		}
	} else {
		byteSize = elementCount * uint64(elementType.Size())
	}

	return rawDataIndex{elementType: elementType, elementCount: elementCount, byteSize: byteSize}, nil
}

func (s *scanner) readProperties(d *decoder, id objectID) error {
	count, err := d.readU32()
	if err != nil {
		return err
	}

	list, ok := s.properties.get(id)
	if !ok {
		list = &propertyList{}
		s.properties.set(id, list)
	}

	for i := uint32(0); i < count; i++ {
		name, err := d.readString()
		if err != nil {
			return err
		}
		typeTag, err := d.readU32()
		if err != nil {
			return err
		}
		if !validDataType(typeTag) {
			return formatErrorf(-1, "property %q on object %d: invalid type id 0x%X", name, id, typeTag)
		}

		value, err := readPropertyValue(d, DataType(typeTag))
		if err != nil {
			return err
		}

		list.upsert(Property{Name: name, TypeCode: DataType(typeTag), Value: value})
	}

	return nil
}

// updateCumulative applies spec.md §4.6 step 7 to every data-bearing object
// in seg: on first sight a channel's element type is frozen; any later
// segment that disagrees is a hard error.
func (s *scanner) updateCumulative(seg *segment) error {
	for _, o := range seg.objects {
		if !o.hasData {
			continue
		}
		idx := s.arena.get(o.index)
		added := idx.elementCount * seg.repetitions

		entry, ok := s.cumulative.get(o.id)
		if !ok {
			entry = &cumulativeEntry{elementType: idx.elementType}
			s.cumulative.set(o.id, entry)
		} else if entry.elementType != idx.elementType {
			return formatErrorf(-1, "object %q: element type changed from %s to %s across segments",
				s.paths.pathOf(o.id), entry.elementType.Name(), idx.elementType.Name())
		}
		entry.count += added
	}
	return nil
}

func (s *scanner) recordDataSegments(segIndex int, seg *segment) {
	for _, o := range seg.objects {
		if !o.hasData {
			continue
		}
		existing, _ := s.dataSegs.get(o.id)
		s.dataSegs.set(o.id, append(existing, segIndex))
	}
}
