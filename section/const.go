package section

// Format-A (gfx) container constants.
const (
	GfxMagic          = "CGFX"
	GfxDataMagic      = "DATA"
	GfxImageMagic     = "IMAG"
	GfxDictMagic      = "DICT"
	GfxHeaderSize     = 0x14       // fixed file header size
	GfxBlockHeadSize  = 8          // magic + block length
	GfxRevision       = 0x05000000 // revision written by the encoder
	GfxDictCount      = 12         // dictionary descriptors in the DATA block
	GfxImageAlign     = 0x80       // texture payload alignment inside IMAG
	GfxDataBlockAlign = 4
)

// Format-B (h3d) container constants.
const (
	H3DMagic             = "BCH\x00"
	H3DHeaderSizeV1      = 0x3C // backward compatibility <= 0x20, no raw-ext section
	H3DHeaderSizeV2      = 0x44 // backward compatibility > 0x20
	H3DRawExtVersion     = 0x20 // raw-ext fields exist when the version is greater than this
	H3DDefaultVersion    = 0x21
	H3DDefaultForward    = 0x00
	H3DDefaultConverter  = 0x0C
	H3DRawDataAlign      = 0x80
	H3DRelocOffsetMask   = 0x01FFFFFF // word offset bits of a relocation entry
	H3DRelocKindShift    = 25
	H3DIndex16Flag       = 0x80000000 // set on raw-data index addresses holding 16-bit indices
	H3DAddressMask       = 0x7FFFFFFF
	H3DContentsDictCount = 9
)
