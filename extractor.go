package tdms

import "io"

// locateInChunk walks seg's data-bearing objects in order, returning the
// byte offset of channelID's data from the start of one chunk and its
// raw-data-index record. Used by the contiguous path.
func locateInChunk(seg *segment, arena *rawDataIndexArena, channelID objectID) (offset int64, idx rawDataIndex, found bool) {
	var cur int64
	for _, o := range seg.objects {
		if !o.hasData {
			continue
		}
		ix := arena.get(o.index)
		if o.id == channelID {
			return cur, ix, true
		}
		cur += int64(ix.byteSize)
	}
	return 0, rawDataIndex{}, false
}

// locateInterleaved walks seg's data-bearing objects, verifying every one
// shares the same per-chunk element count (spec.md's interleaved invariant)
// and that every element type is fixed-size, then returns channelID's byte
// offset and element size within the per-sample stride, plus that stride
// itself (the sum of element sizes of every data-bearing object).
func locateInterleaved(seg *segment, arena *rawDataIndexArena, channelID objectID) (offset, elemSize, stride int, perSegCount uint64, found bool, err error) {
	first := true
	cur := 0

	for _, o := range seg.objects {
		if !o.hasData {
			continue
		}
		ix := arena.get(o.index)

		sz := ix.elementType.Size()
		if sz == 0 {
			return 0, 0, 0, 0, false, formatErrorf(-1,
				"interleaved segment has non-fixed-size element type %s", ix.elementType.Name())
		}

		if first {
			perSegCount = ix.elementCount
			first = false
		} else if ix.elementCount != perSegCount {
			return 0, 0, 0, 0, false, formatErrorf(-1, "interleaved segment-objects disagree on per-chunk element count")
		}

		if o.id == channelID {
			offset = cur
			elemSize = sz
			found = true
		}
		cur += sz
	}

	stride = cur
	return offset, elemSize, stride, perSegCount, found, nil
}

// readSegmentChannel extracts channelID's values from one segment into fill,
// starting at buffer position base, branching on the segment's layout per
// spec.md §4.8. It returns the number of elements written.
func readSegmentChannel(src io.ReadSeeker, seg *segment, arena *rawDataIndexArena, channelID objectID, base int, fill indexedFillFunc) (int, error) {
	if seg.isInterleaved() {
		return readInterleavedChannel(src, seg, arena, channelID, base, fill)
	}
	return readContiguousChannel(src, seg, arena, channelID, base, fill)
}

func readContiguousChannel(src io.ReadSeeker, seg *segment, arena *rawDataIndexArena, channelID objectID, base int, fill indexedFillFunc) (int, error) {
	offset, idx, found := locateInChunk(seg, arena, channelID)
	if !found {
		return 0, nil
	}

	written := 0
	for r := uint64(0); r < seg.repetitions; r++ {
		pos := seg.rawDataPosition + int64(r)*int64(seg.chunkWidth) + offset
		if _, err := src.Seek(pos, io.SeekStart); err != nil {
			return written, ioErrorf(err)
		}

		d := newDecoder(src, seg.order)
		for i := uint64(0); i < idx.elementCount; i++ {
			if err := fill(d, base+written); err != nil {
				return written, err
			}
			written++
		}
	}

	return written, nil
}

func readInterleavedChannel(src io.ReadSeeker, seg *segment, arena *rawDataIndexArena, channelID objectID, base int, fill indexedFillFunc) (int, error) {
	offset, elemSize, stride, perSegCount, found, err := locateInterleaved(seg, arena, channelID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}

	written := 0
	chunkBytes := int(seg.chunkWidth)

	for r := uint64(0); r < seg.repetitions; r++ {
		pos := seg.rawDataPosition + int64(r)*int64(seg.chunkWidth)
		if _, err := src.Seek(pos, io.SeekStart); err != nil {
			return written, ioErrorf(err)
		}

		scratch := make([]byte, chunkBytes)
		if _, err := io.ReadFull(src, scratch); err != nil {
			return written, ioErrorf(err)
		}

		ir := newInterleaveReader(scratch, elemSize, stride, offset)
		d := newDecoder(ir, seg.order)
		for i := uint64(0); i < perSegCount; i++ {
			if err := fill(d, base+written); err != nil {
				return written, err
			}
			written++
		}
	}

	return written, nil
}
