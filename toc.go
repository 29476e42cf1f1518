package tdms

// tocFlags decodes the segment lead-in's table-of-contents bitmask. Only
// known bits are mask-tested; any unrecognised bits are ignored rather than
// rejected.
type tocFlags uint32

const (
	tocHasMetadata     tocFlags = 1 << 1
	tocNewObjectList   tocFlags = 1 << 2
	tocHasRawData      tocFlags = 1 << 3
	tocInterleavedData tocFlags = 1 << 5
	tocBigEndian       tocFlags = 1 << 6
	tocDAQmxRawData    tocFlags = 1 << 7
)

func (f tocFlags) has(bit tocFlags) bool {
	return f&bit != 0
}
