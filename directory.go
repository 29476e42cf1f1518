package tdms

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// File is a parsed TDMS stream. Use Open to read a file by path, or New to
// wrap any io.ReadSeeker. All metadata is read exactly once, inside
// Open/New; every later operation is a lookup against that state.
type File struct {
	src  io.ReadSeeker
	sc   *scanner
	file *os.File   // non-nil only when opened via Open or OpenMmap
	mmap *mmapFile  // non-nil only when opened via OpenMmap

	groups   map[string]*Group
	groupIDs []objectID // in path-registry order, for Groups() iteration order
}

// Group is a named collection of channels within a File.
type Group struct {
	Name string

	f        *File
	id       objectID
	channels map[string]*Channel
	chanIDs  []objectID
}

// Channel is one channel of typed data within a Group.
type Channel struct {
	Name      string
	GroupName string

	f    *File
	id   objectID
	kind elementKind
}

// Option configures Open/New.
type Option func(*openOptions)

type openOptions struct {
	logger *zap.Logger
}

// WithLogger attaches a zap logger the metadata engine uses to emit
// informational trace events while scanning segments. The default is a
// no-op logger; logging never affects parsing behaviour.
func WithLogger(logger *zap.Logger) Option {
	return func(o *openOptions) { o.logger = logger }
}

// Open opens and parses the TDMS file at path. The caller must call
// File.Close when done.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErrorf(err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ioErrorf(err)
	}

	file, err := New(f, info.Size(), opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	file.file = f

	return file, nil
}

// New parses a TDMS stream from src, which must support seeking to offset 0
// and reading forward. size must be the total byte length reachable through
// src.
func New(src io.ReadSeeker, size int64, opts ...Option) (*File, error) {
	options := openOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	sc := newScanner(src, size, options.logger)
	if err := sc.scan(); err != nil {
		return nil, err
	}

	f := &File{src: src, sc: sc, groups: make(map[string]*Group)}
	if err := f.build(); err != nil {
		return nil, err
	}

	return f, nil
}

// Close releases whatever resource the File owns: for a File created via
// Open, the underlying descriptor; for one created via OpenMmap, the mapping
// and the descriptor beneath it. It is a no-op for a File created via New,
// which never owns src.
func (f *File) Close() error {
	if f.mmap != nil {
		return errors.Join(f.mmap.m.Close(), f.mmap.f.Close())
	}
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// build walks the interned path registry once, after the metadata scan, and
// populates the Group/Channel facade.
func (f *File) build() error {
	for id := objectID(0); id < objectID(f.sc.paths.len()); id++ {
		parsed := f.sc.paths.parsedOf(id)

		switch parsed.kind {
		case pathRoot:
			// Root properties are exposed via File.Properties(); nothing to
			// build here.

		case pathGroup:
			g := &Group{Name: parsed.group, f: f, id: id, channels: make(map[string]*Channel)}
			f.groups[parsed.group] = g
			f.groupIDs = append(f.groupIDs, id)

		case pathChannel:
			g, ok := f.groups[parsed.group]
			if !ok {
				// spec.md §9: a channel may appear without its group ever
				// being explicitly declared. Interning a channel path
				// always implicitly interns its group path first
				// (path.go), so the group has the lower id and its
				// pathGroup case has normally run already; this branch
				// only guards against that ordering not holding, and
				// builds the group under the group's own id.
				gid, _ := f.sc.paths.idOf(canonicalizeGroup(parsed.group))
				g = &Group{Name: parsed.group, f: f, id: gid, channels: make(map[string]*Channel)}
				f.groups[parsed.group] = g
				f.groupIDs = append(f.groupIDs, gid)
			}

			ch := &Channel{Name: parsed.channel, GroupName: parsed.group, f: f, id: id}
			if entry, ok := f.sc.cumulative.get(id); ok {
				ch.kind = entry.elementType.kind()
			}

			g.channels[parsed.channel] = ch
			g.chanIDs = append(g.chanIDs, id)
		}
	}

	return nil
}

// Properties returns the root-level properties, in the order they were
// first declared.
func (f *File) Properties() []Property {
	return propertiesOf(f.sc, rootID)
}

// Groups returns every declared group, in path-registry (first-seen) order.
func (f *File) Groups() []*Group {
	groups := make([]*Group, 0, len(f.groupIDs))
	for _, id := range f.groupIDs {
		groups = append(groups, f.groups[f.sc.paths.parsedOf(id).group])
	}
	return groups
}

// Group returns the named group, or nil if it was never declared.
func (f *File) Group(name string) *Group {
	return f.groups[name]
}

// Properties returns the group's properties, in first-declared order. A
// group that was only ever implicitly created (because one of its channels
// was declared but the group path itself never was) has an empty property
// list, not an error.
func (g *Group) Properties() []Property {
	return propertiesOf(g.f.sc, g.id)
}

// Channels returns every channel declared under this group, in
// path-registry (first-seen) order.
func (g *Group) Channels() []*Channel {
	channels := make([]*Channel, 0, len(g.chanIDs))
	for _, id := range g.chanIDs {
		channels = append(channels, g.channels[g.f.sc.paths.parsedOf(id).channel])
	}
	return channels
}

// Channel returns the named channel within this group, or nil if it was
// never declared.
func (g *Group) Channel(name string) *Channel {
	return g.channels[name]
}

// Properties returns the channel's properties, in first-declared order.
func (c *Channel) Properties() []Property {
	return propertiesOf(c.f.sc, c.id)
}

// ElementType returns the channel's frozen element type, or DataTypeVoid if
// the channel has never carried data.
func (c *Channel) ElementType() DataType {
	if entry, ok := c.f.sc.cumulative.get(c.id); ok {
		return entry.elementType
	}
	return DataTypeVoid
}

// Length returns the channel's cumulative value count across every segment,
// or 0 if the channel has never carried data.
func (c *Channel) Length() uint64 {
	if entry, ok := c.f.sc.cumulative.get(c.id); ok {
		return entry.count
	}
	return 0
}

func propertiesOf(sc *scanner, id objectID) []Property {
	list, ok := sc.properties.get(id)
	if !ok {
		return nil
	}
	out := make([]Property, len(list.items))
	copy(out, list.items)
	return out
}

// Element is the closed set of Go types the engine can read channel data
// into. It mirrors elementKind (types.go): the engine-controlled set of
// readable TDMS element kinds, expressed as Go types instead of wire tags.
type Element interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | Timestamp
}

func kindFor[T Element]() elementKind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return kindInt8
	case int16:
		return kindInt16
	case int32:
		return kindInt32
	case int64:
		return kindInt64
	case uint8:
		return kindUint8
	case uint16:
		return kindUint16
	case uint32:
		return kindUint32
	case uint64:
		return kindUint64
	case float32:
		return kindFloat32
	case float64:
		return kindFloat64
	case Timestamp:
		return kindTimestamp
	default:
		return kindUnreadable
	}
}

// ReadAll fills out with every value of channel c, across every segment that
// carries data for it, in file order. out must be at least c.Length() long
// and its element type must match c.ElementType(); otherwise ReadAll returns
// an error before writing anything. An error while reading the data itself
// leaves out partially written. The int result is the number of values
// written.
func ReadAll[T Element](c *Channel, out []T) (int, error) {
	if c.kind == kindUnreadable {
		return 0, fmt.Errorf("%w: channel %q has element type %s",
			ErrUnsupportedType, c.path(), c.ElementType().Name())
	}

	kind := kindFor[T]()
	if kind != c.kind {
		return 0, fmt.Errorf("%w: channel %q is %s, buffer is %T",
			ErrIncorrectType, c.path(), c.ElementType().Name(), *new(T))
	}

	length := c.Length()
	if uint64(len(out)) < length {
		return 0, fmt.Errorf("%w: channel %q has %d values, buffer has %d", ErrBufferTooSmall, c.path(), length, len(out))
	}

	segIndices, _ := c.f.sc.dataSegs.get(c.id)

	switch b := any(out).(type) {
	case []int8:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readI8()
			b[i] = v
			return err
		})
	case []int16:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readI16()
			b[i] = v
			return err
		})
	case []int32:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readI32()
			b[i] = v
			return err
		})
	case []int64:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readI64()
			b[i] = v
			return err
		})
	case []uint8:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readU8()
			b[i] = v
			return err
		})
	case []uint16:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readU16()
			b[i] = v
			return err
		})
	case []uint32:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readU32()
			b[i] = v
			return err
		})
	case []uint64:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readU64()
			b[i] = v
			return err
		})
	case []float32:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readF32()
			b[i] = v
			return err
		})
	case []float64:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readF64()
			b[i] = v
			return err
		})
	case []Timestamp:
		return readAllInto(c, segIndices, func(d *decoder, i int) error {
			v, err := d.readTimestamp()
			b[i] = v
			return err
		})
	default:
		// Unreachable: the Element constraint closes the type set above.
		return 0, ErrIncorrectType
	}
}

// indexedFillFunc decodes one element from d and stores it at position i of
// the caller's buffer.
type indexedFillFunc func(d *decoder, i int) error

func readAllInto(c *Channel, segIndices []int, fill indexedFillFunc) (int, error) {
	written := 0
	for _, si := range segIndices {
		seg := &c.f.sc.segments[si]
		n, err := readSegmentChannel(c.f.src, seg, c.f.sc.arena, c.id, written, fill)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (c *Channel) path() string {
	return c.f.sc.paths.pathOf(c.id)
}
