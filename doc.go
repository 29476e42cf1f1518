// Package tdms provides a pure Go parser for the Technical Data Management
// Streaming (TDMS) file format used by National Instruments (NI) software
// such as LabVIEW.
//
// Open a file with [Open] or wrap any [io.ReadSeeker] with [New]. For very
// large files, [OpenMmap] memory-maps the file instead of buffering reads
// through it. All three parse the file's metadata in one pass; every later
// call is a lookup against that state, never a re-parse.
//
//	file, err := tdms.Open("data.tdms")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	for _, group := range file.Groups() {
//		for _, channel := range group.Channels() {
//			values := make([]float64, channel.Length())
//			if _, err := tdms.ReadAll(channel, values); err != nil {
//				log.Fatal(err)
//			}
//			fmt.Println(values)
//		}
//	}
//
// [ReadAll] is generic over the channel's element type: call it with a
// []int8, []uint32, []float64, []tdms.Timestamp, or any other type [Element]
// permits. Passing a buffer whose element type doesn't match the channel's
// actual element type, per [Channel.ElementType], returns [ErrIncorrectType]
// rather than silently reinterpreting bytes.
//
// Files, groups, and channels can all carry properties, accessed with
// [File.Properties], [Group.Properties], and [Channel.Properties]. To get a
// type-safe property value, use the As* methods, e.g. [Property.AsFloat64],
// [Property.AsUint32], [Property.AsString].
//
//	for _, prop := range file.Properties() {
//		if prop.Name == "Author" {
//			author, err := prop.AsString()
//			if err != nil {
//				log.Fatal(err)
//			}
//			fmt.Println(author)
//		}
//	}
//
// Timestamps are stored as [Timestamp], which carries more sub-second
// precision than [time.Time]. Convert with [Timestamp.AsTime], or read a
// timestamp property directly as a [time.Time] with [Property.AsTime].
//
//	createdAt, err := prop.AsTimestamp()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("file was created at %s", createdAt.AsTime())
//
// Extended-precision floats, booleans, strings, complex numbers, and DAQmx
// raw data are outside what this package reads as channel data; a channel of
// one of those types reports [ErrUnsupportedType] from [ReadAll]. Strings are
// still readable as property values, since [Property.Value] carries an [any];
// a property of any of the other kinds makes opening the file fail with
// [ErrInvalidFileFormat].
//
// Pass [WithLogger] to [Open], [New], or [OpenMmap] to observe the metadata
// scan with a [go.uber.org/zap.Logger]; logging never changes parsing
// behaviour.
package tdms
