package frame

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hepdf/codec"
	"github.com/hupe1980/hepdf/lorentz"
)

var (
	snapshotMagic         = [4]byte{'H', 'F', 'S', '1'}
	snapshotFooterMagic   = [4]byte{'H', 'F', 'F', '1'}
	snapshotFormatVersion = uint16(1)
)

const (
	snapshotSectionSchema = uint16(1)
	snapshotSectionColumn = uint16(2)
	snapshotSectionMask   = uint16(3)
)

// snapshotSectionEntry is one fixed-size directory record.
// Layout: type(2) reserved(2) offset(8) len(8) crc32(4) reserved(4) = 28 bytes.
const sectionEntrySize = 28

type snapshotSectionEntry struct {
	Type     uint16
	Offset   uint64
	Len      uint64
	Checksum uint32
}

// snapshotSchema is the codec-encoded schema section.
// Column sections appear in the same order as Columns.
type snapshotSchema struct {
	NumEvents   int            `json:"num_events"`
	Compression string         `json:"compression"`
	Columns     []columnSchema `json:"columns"`
	Filters     []string       `json:"filters,omitempty"`
	HasMask     bool           `json:"has_mask"`
}

type columnSchema struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Save writes the frame to w as a self-describing snapshot.
//
// Format:
//  1. snapshot header (magic/version/codec name)
//  2. schema section (codec marshaled)
//  3. one compressed block per column, in schema order
//  4. selection mask section (roaring bytes), when filters were applied
//  5. directory (type/offset/length/crc per section)
//  6. footer (directory offset/length)
func (f *EventFrame) Save(w io.Writer, c codec.Codec) error {
	start := time.Now()
	written, err := f.save(w, c)
	f.cfg.metrics.OnSnapshotSave(time.Since(start), written, err)
	if err != nil {
		f.cfg.logger.Errorf("frame: snapshot save failed: %v", err)
	}
	return err
}

func (f *EventFrame) save(w io.Writer, c codec.Codec) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("frame: snapshot writer is nil")
	}
	if c == nil {
		c = codec.Default
	}

	codecName := c.Name()
	if len(codecName) > 0xFFFF {
		return 0, fmt.Errorf("frame: snapshot codec name too long: %d", len(codecName))
	}

	// Stable column order: schema drives section order on load.
	names := f.ColumnNames()
	slices.Sort(names)

	schema := snapshotSchema{
		NumEvents:   f.n,
		Compression: f.cfg.compression.String(),
		Filters:     f.filters,
		HasMask:     f.mask != nil,
	}
	for _, name := range names {
		schema.Columns = append(schema.Columns, columnSchema{
			Name: name,
			Kind: f.columns[name].Kind().String(),
		})
	}

	var offset int64

	// Header (16 bytes + codec name)
	// [0:4]  magic
	// [4:6]  version
	// [6:8]  reserved
	// [8:10] codec name len
	// [10:12] section count
	// [12:16] reserved
	sections := 1 + len(names)
	if f.mask != nil {
		sections++
	}
	var hdr [16]byte
	copy(hdr[0:4], snapshotMagic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], snapshotFormatVersion)
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(len(codecName)))
	binary.LittleEndian.PutUint16(hdr[10:12], uint16(sections))
	if _, err := w.Write(hdr[:]); err != nil {
		return offset, err
	}
	offset += int64(len(hdr))
	if _, err := io.WriteString(w, codecName); err != nil {
		return offset, err
	}
	offset += int64(len(codecName))

	var dir []snapshotSectionEntry

	writeSection := func(sectionType uint16, payload []byte) error {
		dir = append(dir, snapshotSectionEntry{
			Type:     sectionType,
			Offset:   uint64(offset),
			Len:      uint64(len(payload)),
			Checksum: crc32.ChecksumIEEE(payload),
		})
		n, err := w.Write(payload)
		offset += int64(n)
		return err
	}

	schemaBytes, err := c.Marshal(schema)
	if err != nil {
		return offset, fmt.Errorf("frame: marshal schema: %w", err)
	}
	if err := writeSection(snapshotSectionSchema, schemaBytes); err != nil {
		return offset, err
	}

	for _, name := range names {
		raw, err := encodeColumn(f.columns[name])
		if err != nil {
			return offset, fmt.Errorf("frame: encode column %q: %w", name, err)
		}
		block, err := compressBlock(raw, f.cfg.compression)
		if err != nil {
			return offset, fmt.Errorf("frame: compress column %q: %w", name, err)
		}
		if err := writeSection(snapshotSectionColumn, block); err != nil {
			return offset, err
		}
	}

	if f.mask != nil {
		maskBytes, err := f.mask.ToBytes()
		if err != nil {
			return offset, fmt.Errorf("frame: marshal mask: %w", err)
		}
		block, err := compressBlock(maskBytes, f.cfg.compression)
		if err != nil {
			return offset, err
		}
		if err := writeSection(snapshotSectionMask, block); err != nil {
			return offset, err
		}
	}

	// Directory
	dirOffset := offset
	dirBytes := make([]byte, 0, len(dir)*sectionEntrySize)
	var entry [sectionEntrySize]byte
	for _, e := range dir {
		binary.LittleEndian.PutUint16(entry[0:2], e.Type)
		binary.LittleEndian.PutUint64(entry[4:12], e.Offset)
		binary.LittleEndian.PutUint64(entry[12:20], e.Len)
		binary.LittleEndian.PutUint32(entry[20:24], e.Checksum)
		dirBytes = append(dirBytes, entry[:]...)
	}
	if _, err := w.Write(dirBytes); err != nil {
		return offset, err
	}
	offset += int64(len(dirBytes))

	// Footer: magic + directory offset/length (20 bytes)
	var footer [20]byte
	copy(footer[0:4], snapshotFooterMagic[:])
	binary.LittleEndian.PutUint64(footer[4:12], uint64(dirOffset))
	binary.LittleEndian.PutUint64(footer[12:20], uint64(len(dirBytes)))
	if _, err := w.Write(footer[:]); err != nil {
		return offset, err
	}
	offset += int64(len(footer))

	return offset, nil
}

// Load reconstructs a frame from snapshot bytes produced by Save.
func Load(data []byte, opts ...Option) (*EventFrame, error) {
	start := time.Now()
	f, err := load(data, opts...)
	if f != nil {
		f.cfg.metrics.OnSnapshotLoad(time.Since(start), int64(len(data)), err)
	}
	return f, err
}

func load(data []byte, opts ...Option) (*EventFrame, error) {
	if len(data) < 16+20 {
		return nil, ErrBadMagic
	}
	if [4]byte(data[0:4]) != snapshotMagic {
		return nil, ErrBadMagic
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version > snapshotFormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	codecNameLen := int(binary.LittleEndian.Uint16(data[8:10]))
	sectionCount := int(binary.LittleEndian.Uint16(data[10:12]))
	if 16+codecNameLen > len(data) {
		return nil, ErrBadMagic
	}
	codecName := string(data[16 : 16+codecNameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	// Footer
	footer := data[len(data)-20:]
	if [4]byte(footer[0:4]) != snapshotFooterMagic {
		return nil, ErrBadMagic
	}
	dirOffset := binary.LittleEndian.Uint64(footer[4:12])
	dirLen := binary.LittleEndian.Uint64(footer[12:20])
	if dirOffset+dirLen > uint64(len(data)) || dirLen != uint64(sectionCount*sectionEntrySize) {
		return nil, ErrBadMagic
	}

	sections := make([]snapshotSectionEntry, 0, sectionCount)
	dirBytes := data[dirOffset : dirOffset+dirLen]
	for i := 0; i < sectionCount; i++ {
		e := dirBytes[i*sectionEntrySize:]
		sections = append(sections, snapshotSectionEntry{
			Type:     binary.LittleEndian.Uint16(e[0:2]),
			Offset:   binary.LittleEndian.Uint64(e[4:12]),
			Len:      binary.LittleEndian.Uint64(e[12:20]),
			Checksum: binary.LittleEndian.Uint32(e[20:24]),
		})
	}

	sectionPayload := func(e snapshotSectionEntry) ([]byte, error) {
		if e.Offset+e.Len > uint64(len(data)) {
			return nil, ErrBadMagic
		}
		payload := data[e.Offset : e.Offset+e.Len]
		if crc32.ChecksumIEEE(payload) != e.Checksum {
			return nil, ErrChecksumMismatch
		}
		return payload, nil
	}

	if len(sections) == 0 || sections[0].Type != snapshotSectionSchema {
		return nil, fmt.Errorf("frame: snapshot missing schema section")
	}
	schemaBytes, err := sectionPayload(sections[0])
	if err != nil {
		return nil, err
	}
	var schema snapshotSchema
	if err := c.Unmarshal(schemaBytes, &schema); err != nil {
		return nil, fmt.Errorf("frame: unmarshal schema: %w", err)
	}

	compression := CompressionLZ4
	switch schema.Compression {
	case "none":
		compression = CompressionNone
	case "zstd":
		compression = CompressionZSTD
	}

	f := New(schema.NumEvents, opts...)
	f.cfg.compression = compression
	f.filters = schema.Filters

	columnSections := sections[1:]
	if schema.HasMask {
		if len(columnSections) == 0 || columnSections[len(columnSections)-1].Type != snapshotSectionMask {
			return nil, fmt.Errorf("frame: snapshot missing mask section")
		}
		maskSection := columnSections[len(columnSections)-1]
		columnSections = columnSections[:len(columnSections)-1]

		payload, err := sectionPayload(maskSection)
		if err != nil {
			return nil, err
		}
		maskBytes, err := decompressBlock(payload, compression)
		if err != nil {
			return nil, err
		}
		mask := roaring.New()
		if _, err := mask.FromBuffer(maskBytes); err != nil {
			return nil, fmt.Errorf("frame: unmarshal mask: %w", err)
		}
		// FromBuffer aliases its input; clone so the snapshot bytes can be
		// released.
		f.mask = mask.Clone()
	}

	if len(columnSections) != len(schema.Columns) {
		return nil, fmt.Errorf("frame: snapshot section count mismatch: %d sections, %d columns", len(columnSections), len(schema.Columns))
	}

	for i, cs := range schema.Columns {
		if columnSections[i].Type != snapshotSectionColumn {
			return nil, fmt.Errorf("frame: unexpected section type %d for column %q", columnSections[i].Type, cs.Name)
		}
		payload, err := sectionPayload(columnSections[i])
		if err != nil {
			return nil, err
		}
		raw, err := decompressBlock(payload, compression)
		if err != nil {
			return nil, fmt.Errorf("frame: decompress column %q: %w", cs.Name, err)
		}
		kind, ok := kindByName(cs.Kind)
		if !ok {
			return nil, fmt.Errorf("frame: column %q: unknown kind %q", cs.Name, cs.Kind)
		}
		col, err := decodeColumn(kind, raw, schema.NumEvents)
		if err != nil {
			return nil, fmt.Errorf("frame: decode column %q: %w", cs.Name, err)
		}
		f.columns[cs.Name] = col
	}

	return f, nil
}

// encodeColumn serializes column values little-endian.
// Jagged columns store per-event lengths followed by the flattened payload.
func encodeColumn(col Column) ([]byte, error) {
	switch c := col.(type) {
	case *ColumnOf[float32]:
		out := make([]byte, 0, 4*len(c.values))
		for _, v := range c.values {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
		return out, nil

	case *ColumnOf[float64]:
		out := make([]byte, 0, 8*len(c.values))
		for _, v := range c.values {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
		}
		return out, nil

	case *ColumnOf[int32]:
		out := make([]byte, 0, 4*len(c.values))
		for _, v := range c.values {
			out = binary.LittleEndian.AppendUint32(out, uint32(v))
		}
		return out, nil

	case *ColumnOf[uint8]:
		out := make([]byte, len(c.values))
		copy(out, c.values)
		return out, nil

	case *ColumnOf[lorentz.Vec4]:
		out := make([]byte, 0, 32*len(c.values))
		for _, p := range c.values {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.Pt))
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.Eta))
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.Phi))
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.M))
		}
		return out, nil

	case *ColumnOf[[]float32]:
		out := encodeLengths(c.values)
		for _, row := range c.values {
			for _, v := range row {
				out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
			}
		}
		return out, nil

	case *ColumnOf[[]int32]:
		out := encodeLengths(c.values)
		for _, row := range c.values {
			for _, v := range row {
				out = binary.LittleEndian.AppendUint32(out, uint32(v))
			}
		}
		return out, nil

	case *ColumnOf[[]uint8]:
		out := encodeLengths(c.values)
		for _, row := range c.values {
			out = append(out, row...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported column kind: %v", col.Kind())
	}
}

func encodeLengths[T any](rows [][]T) []byte {
	out := make([]byte, 0, 4*len(rows))
	for _, row := range rows {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(row)))
	}
	return out
}

func decodeColumn(kind Kind, raw []byte, numEvents int) (Column, error) {
	switch kind {
	case KindF32:
		if len(raw) != 4*numEvents {
			return nil, fmt.Errorf("payload size %d does not match %d events", len(raw), numEvents)
		}
		values := make([]float32, numEvents)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return NewColumn(values), nil

	case KindF64:
		if len(raw) != 8*numEvents {
			return nil, fmt.Errorf("payload size %d does not match %d events", len(raw), numEvents)
		}
		values := make([]float64, numEvents)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return NewColumn(values), nil

	case KindI32:
		if len(raw) != 4*numEvents {
			return nil, fmt.Errorf("payload size %d does not match %d events", len(raw), numEvents)
		}
		values := make([]int32, numEvents)
		for i := range values {
			values[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return NewColumn(values), nil

	case KindU8:
		if len(raw) != numEvents {
			return nil, fmt.Errorf("payload size %d does not match %d events", len(raw), numEvents)
		}
		values := make([]uint8, numEvents)
		copy(values, raw)
		return NewColumn(values), nil

	case KindP4:
		if len(raw) != 32*numEvents {
			return nil, fmt.Errorf("payload size %d does not match %d events", len(raw), numEvents)
		}
		values := make([]lorentz.Vec4, numEvents)
		for i := range values {
			base := 32 * i
			values[i] = lorentz.Vec4{
				Pt:  math.Float64frombits(binary.LittleEndian.Uint64(raw[base:])),
				Eta: math.Float64frombits(binary.LittleEndian.Uint64(raw[base+8:])),
				Phi: math.Float64frombits(binary.LittleEndian.Uint64(raw[base+16:])),
				M:   math.Float64frombits(binary.LittleEndian.Uint64(raw[base+24:])),
			}
		}
		return NewColumn(values), nil

	case KindVecF32:
		return decodeJagged(raw, numEvents, 4, func(b []byte) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b))
		})

	case KindVecI32:
		return decodeJagged(raw, numEvents, 4, func(b []byte) int32 {
			return int32(binary.LittleEndian.Uint32(b))
		})

	case KindVecU8:
		return decodeJagged(raw, numEvents, 1, func(b []byte) uint8 {
			return b[0]
		})

	default:
		return nil, fmt.Errorf("unsupported column kind: %v", kind)
	}
}

func decodeJagged[T any](raw []byte, numEvents, elemSize int, decode func([]byte) T) (Column, error) {
	if len(raw) < 4*numEvents {
		return nil, fmt.Errorf("payload too small for %d length entries", numEvents)
	}
	lengths := make([]int, numEvents)
	total := 0
	for i := range lengths {
		lengths[i] = int(binary.LittleEndian.Uint32(raw[4*i:]))
		total += lengths[i]
	}
	payload := raw[4*numEvents:]
	if len(payload) != total*elemSize {
		return nil, fmt.Errorf("payload size %d does not match %d elements", len(payload), total)
	}

	values := make([][]T, numEvents)
	pos := 0
	for i, n := range lengths {
		row := make([]T, n)
		for j := 0; j < n; j++ {
			row[j] = decode(payload[pos:])
			pos += elemSize
		}
		values[i] = row
	}
	return NewColumn(values), nil
}
