package format

import "strings"

type (
	Dialect         uint8
	CompressionType uint8
	SectionID       uint8
	RelocKind       uint8
	Quantization    uint8
	LoopType        uint8
	CmpOp           uint8
)

const (
	DialectUnknown Dialect = 0x0 // DialectUnknown is returned when no magic matches.
	DialectGfx     Dialect = 0x1 // DialectGfx is the self-relative CGFX container.
	DialectH3D     Dialect = 0x2 // DialectH3D is the relocated BCH container.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Section identifiers shared by both dialects. Each dialect flushes a subset
// of them in its own fixed order.
const (
	SectionHeader     SectionID = 0x0
	SectionMain       SectionID = 0x1 // gfx DATA block, h3d contents
	SectionStrings    SectionID = 0x2
	SectionCommands   SectionID = 0x3
	SectionRawData    SectionID = 0x4 // gfx IMAG block, h3d raw data
	SectionRawExt     SectionID = 0x5
	SectionRelocation SectionID = 0x6
)

// Relocation kinds stored in the upper 7 bits of an h3d relocation entry.
const (
	RelocContents       RelocKind = 0x0
	RelocStrings        RelocKind = 0x1
	RelocCommands       RelocKind = 0x2
	RelocRawDataTexture RelocKind = 0x4
	RelocRawDataVertex  RelocKind = 0x5
	RelocRawDataIndex16 RelocKind = 0x6
	RelocRawDataIndex8  RelocKind = 0x7
)

// Quantization ordinals. The numeric value is stored on disk and is the only
// discriminator between key layouts, so the order must never change.
const (
	Hermite128       Quantization = 0x0
	Hermite64        Quantization = 0x1
	Hermite48        Quantization = 0x2
	UnifiedHermite96 Quantization = 0x3
	UnifiedHermite48 Quantization = 0x4
	UnifiedHermite32 Quantization = 0x5
	StepLinear64     Quantization = 0x6
	StepLinear32     Quantization = 0x7
)

const (
	LoopNone   LoopType = 0x0
	LoopRepeat LoopType = 0x1
	LoopMirror LoopType = 0x2
	LoopHold   LoopType = 0x3
)

// Comparison operators used by version-gated record fields.
const (
	CmpEqual CmpOp = iota
	CmpNotEqual
	CmpGreater
	CmpGreaterEqual
	CmpLess
	CmpLessEqual
)

func (d Dialect) String() string {
	switch d {
	case DialectGfx:
		return "Gfx"
	case DialectH3D:
		return "H3D"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive codec name to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (s SectionID) String() string {
	switch s {
	case SectionHeader:
		return "Header"
	case SectionMain:
		return "Main"
	case SectionStrings:
		return "Strings"
	case SectionCommands:
		return "Commands"
	case SectionRawData:
		return "RawData"
	case SectionRawExt:
		return "RawExt"
	case SectionRelocation:
		return "Relocation"
	default:
		return "Unknown"
	}
}

func (r RelocKind) String() string {
	switch r {
	case RelocContents:
		return "Contents"
	case RelocStrings:
		return "Strings"
	case RelocCommands:
		return "Commands"
	case RelocRawDataTexture:
		return "RawDataTexture"
	case RelocRawDataVertex:
		return "RawDataVertex"
	case RelocRawDataIndex16:
		return "RawDataIndex16"
	case RelocRawDataIndex8:
		return "RawDataIndex8"
	default:
		return "Unknown"
	}
}

// Section returns the section a relocation kind points into.
func (r RelocKind) Section() SectionID {
	switch r {
	case RelocContents:
		return SectionMain
	case RelocStrings:
		return SectionStrings
	case RelocCommands:
		return SectionCommands
	case RelocRawDataTexture, RelocRawDataVertex, RelocRawDataIndex16, RelocRawDataIndex8:
		return SectionRawData
	default:
		return SectionHeader
	}
}

func (q Quantization) String() string {
	switch q {
	case Hermite128:
		return "Hermite128"
	case Hermite64:
		return "Hermite64"
	case Hermite48:
		return "Hermite48"
	case UnifiedHermite96:
		return "UnifiedHermite96"
	case UnifiedHermite48:
		return "UnifiedHermite48"
	case UnifiedHermite32:
		return "UnifiedHermite32"
	case StepLinear64:
		return "StepLinear64"
	case StepLinear32:
		return "StepLinear32"
	default:
		return "Unknown"
	}
}

// Valid reports whether q is one of the eight known ordinals.
func (q Quantization) Valid() bool {
	return q <= StepLinear32
}

// Stepped reports whether q stores keys without tangents.
func (q Quantization) Stepped() bool {
	return q == StepLinear64 || q == StepLinear32
}

func (l LoopType) String() string {
	switch l {
	case LoopNone:
		return "None"
	case LoopRepeat:
		return "Repeat"
	case LoopMirror:
		return "Mirror"
	case LoopHold:
		return "Hold"
	default:
		return "Unknown"
	}
}

// Eval reports whether "lhs op rhs" holds.
func (op CmpOp) Eval(lhs, rhs uint32) bool {
	switch op {
	case CmpEqual:
		return lhs == rhs
	case CmpNotEqual:
		return lhs != rhs
	case CmpGreater:
		return lhs > rhs
	case CmpGreaterEqual:
		return lhs >= rhs
	case CmpLess:
		return lhs < rhs
	case CmpLessEqual:
		return lhs <= rhs
	default:
		return false
	}
}

func (op CmpOp) String() string {
	switch op {
	case CmpEqual:
		return "=="
	case CmpNotEqual:
		return "!="
	case CmpGreater:
		return ">"
	case CmpGreaterEqual:
		return ">="
	case CmpLess:
		return "<"
	case CmpLessEqual:
		return "<="
	default:
		return "?"
	}
}
