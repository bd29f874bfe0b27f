package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// cmap maps font character codes to Unicode text, built from the
// ToUnicode CMap streams embedded in the PDF.
type cmap struct {
	codes    map[uint32]string
	codeSize int
}

var (
	bfCharSectionRE  = regexp.MustCompile(`(?s)beginbfchar(.*?)endbfchar`)
	bfRangeSectionRE = regexp.MustCompile(`(?s)beginbfrange(.*?)endbfrange`)
	bfCharPairRE     = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>`)
	bfRangeTripleRE  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>`)
)

// collectCMaps parses every ToUnicode CMap in the file and merges them
// into one lookup table. Returns nil when the file has none.
func collectCMaps(data []byte) *cmap {
	merged := &cmap{codes: make(map[uint32]string)}
	for _, stream := range contentStreams(data) {
		body := string(inflate(stream))
		if !strings.Contains(body, "beginbfchar") && !strings.Contains(body, "beginbfrange") {
			continue
		}
		parseCMap(body, merged)
	}
	if len(merged.codes) == 0 {
		return nil
	}
	return merged
}

func parseCMap(body string, cm *cmap) {
	for _, section := range bfCharSectionRE.FindAllStringSubmatch(body, -1) {
		for _, pair := range bfCharPairRE.FindAllStringSubmatch(section[1], -1) {
			code, err := strconv.ParseUint(pair[1], 16, 32)
			if err != nil {
				continue
			}
			if text := hexToUnicode(pair[2]); text != "" {
				cm.codes[uint32(code)] = text
				cm.noteCodeSize(len(pair[1]) / 2)
			}
		}
	}

	for _, section := range bfRangeSectionRE.FindAllStringSubmatch(body, -1) {
		for _, triple := range bfRangeTripleRE.FindAllStringSubmatch(section[1], -1) {
			lo, err1 := strconv.ParseUint(triple[1], 16, 32)
			hi, err2 := strconv.ParseUint(triple[2], 16, 32)
			dst, err3 := strconv.ParseUint(triple[3], 16, 32)
			if err1 != nil || err2 != nil || err3 != nil || hi < lo || hi-lo > 0xFFFF {
				continue
			}
			for c := lo; c <= hi; c++ {
				cp := rune(dst + (c - lo))
				if cp > 0 && cp <= 0x10FFFF {
					cm.codes[uint32(c)] = string(cp)
				}
			}
			cm.noteCodeSize(len(triple[1]) / 2)
		}
	}
}

func (c *cmap) noteCodeSize(n int) {
	if n > c.codeSize {
		c.codeSize = n
	}
}

// decode maps raw string bytes through the table. Codes are read at the
// CMap's declared width, defaulting to 2 bytes as CID fonts use.
func (c *cmap) decode(raw []byte) string {
	width := c.codeSize
	if width < 1 || width > 4 {
		width = 2
	}

	var b strings.Builder
	matched := 0
	for i := 0; i+width <= len(raw); i += width {
		var code uint32
		for j := 0; j < width; j++ {
			code = code<<8 | uint32(raw[i+j])
		}
		if text, ok := c.codes[code]; ok {
			b.WriteString(text)
			matched++
		}
	}
	// A sparse match rate means the bytes were not encoded with this
	// CMap at all.
	if matched == 0 || matched*width*2 < len(raw) {
		return ""
	}
	return b.String()
}

// hexToUnicode converts a CMap destination hex string, which is
// UTF-16BE and may contain surrogate pairs, into text.
func hexToUnicode(hexStr string) string {
	if len(hexStr)%4 != 0 {
		if len(hexStr) == 2 {
			if v, err := strconv.ParseUint(hexStr, 16, 16); err == nil {
				return string(rune(v))
			}
		}
		return ""
	}
	units := make([]uint16, 0, len(hexStr)/4)
	for i := 0; i+4 <= len(hexStr); i += 4 {
		v, err := strconv.ParseUint(hexStr[i:i+4], 16, 16)
		if err != nil {
			return ""
		}
		units = append(units, uint16(v))
	}
	return string(utf16.Decode(units))
}
