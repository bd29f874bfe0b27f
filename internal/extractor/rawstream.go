package extractor

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"
)

// extractRaw is the fallback for PDFs the structured library cannot
// decode, typically CIDFont/Type0 fonts. It works directly on the byte
// stream: collect ToUnicode CMaps, then decode the text-showing
// operators (Tj, TJ, ') in every content stream.
func extractRaw(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	streams := contentStreams(data)
	if len(streams) == 0 {
		return nil, nil
	}

	cm := collectCMaps(data)

	var texts []string
	for _, stream := range streams {
		if text := streamText(inflate(stream), cm); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var page strings.Builder
	for _, t := range texts {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		if page.Len() > 0 {
			page.WriteString("\n")
		}
		page.WriteString(t)
	}
	if page.Len() == 0 {
		return nil, nil
	}
	// Raw decoding loses page boundaries; everything comes back as one
	// block, which the section bounder tolerates.
	return []string{page.String()}, nil
}

// contentStreams returns every stream...endstream body in the file.
func contentStreams(data []byte) [][]byte {
	var streams [][]byte
	begin := []byte("stream")
	end := []byte("endstream")

	for off := 0; off < len(data); {
		i := bytes.Index(data[off:], begin)
		if i < 0 {
			break
		}
		start := off + i + len(begin)
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}
		j := bytes.Index(data[start:], end)
		if j < 0 {
			break
		}
		if j > 0 {
			streams = append(streams, data[start:start+j])
		}
		off = start + j + len(end)
	}
	return streams
}

// inflate zlib-decompresses a stream body, returning it untouched when
// it is not compressed.
func inflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

var (
	hexShowRE  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*Tj`)
	litShowRE  = regexp.MustCompile(`\(([^)]*)\)\s*Tj`)
	arrShowRE  = regexp.MustCompile(`\[([^\]]*)\]\s*TJ`)
	hexTokRE   = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
	litTokRE   = regexp.MustCompile(`\(([^)]*)\)`)
	tickShowRE = regexp.MustCompile(`\(([^)]*)\)\s*'`)
	moveTextRE = regexp.MustCompile(`[\d.\-]+\s+[\d.\-]+\s+T[dD]`)
)

// streamText decodes the text operators of one content stream,
// splitting lines at text-positioning operators.
func streamText(data []byte, cm *cmap) string {
	content := string(data)
	if !strings.Contains(content, "Tj") && !strings.Contains(content, "TJ") &&
		!strings.Contains(content, "BT") {
		return ""
	}

	var lines []string
	for _, block := range textBlocks(content) {
		lines = append(lines, blockLines(block, cm)...)
	}
	if len(lines) == 0 {
		// No BT/ET structure; sweep the whole stream.
		var parts []string
		for _, m := range hexShowRE.FindAllStringSubmatch(content, -1) {
			if t := decodeHex(m[1], cm); t != "" {
				parts = append(parts, t)
			}
		}
		for _, m := range litShowRE.FindAllStringSubmatch(content, -1) {
			if t := decodeLiteral(m[1], cm); t != "" {
				parts = append(parts, t)
			}
		}
		for _, m := range arrShowRE.FindAllStringSubmatch(content, -1) {
			if t := decodeArray(m[1], cm); t != "" {
				parts = append(parts, t)
			}
		}
		lines = parts
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// textBlocks slices out the BT...ET spans of a content stream.
func textBlocks(content string) []string {
	var blocks []string
	for {
		bt := strings.Index(content, "BT")
		if bt < 0 {
			break
		}
		et := strings.Index(content[bt:], "ET")
		if et < 0 {
			break
		}
		blocks = append(blocks, content[bt:bt+et+2])
		content = content[bt+et+2:]
	}
	return blocks
}

func blockLines(block string, cm *cmap) []string {
	var lines []string
	var cur strings.Builder

	endLine := func() {
		if line := strings.TrimSpace(cur.String()); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	for _, op := range strings.Split(block, "\n") {
		op = strings.TrimSpace(op)

		// Td/TD and T* reposition the text cursor: new line.
		if op == "T*" || moveTextRE.MatchString(op) {
			endLine()
		}

		for _, m := range hexShowRE.FindAllStringSubmatch(op, -1) {
			cur.WriteString(decodeHex(m[1], cm))
		}
		for _, m := range litShowRE.FindAllStringSubmatch(op, -1) {
			cur.WriteString(decodeLiteral(m[1], cm))
		}
		for _, m := range arrShowRE.FindAllStringSubmatch(op, -1) {
			cur.WriteString(decodeArray(m[1], cm))
		}
		for _, m := range tickShowRE.FindAllStringSubmatch(op, -1) {
			endLine()
			cur.WriteString(decodeLiteral(m[1], cm))
		}
	}
	endLine()
	return lines
}

func decodeHex(hexStr string, cm *cmap) string {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return ""
	}
	if cm != nil {
		if t := cm.decode(raw); t != "" {
			return t
		}
	}
	// Direct UTF-16BE is common for hex strings without a usable CMap.
	if len(raw) >= 2 && len(raw)%2 == 0 {
		var b strings.Builder
		for i := 0; i+1 < len(raw); i += 2 {
			cp := rune(raw[i])<<8 | rune(raw[i+1])
			if unicode.IsPrint(cp) || cp == ' ' {
				b.WriteRune(cp)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return printableOnly(string(raw))
}

func decodeLiteral(s string, cm *cmap) string {
	decoded := unescapePDF(s)
	if cm != nil {
		if t := cm.decode([]byte(decoded)); t != "" && mostlyPrintable(t) {
			return t
		}
	}
	return printableOnly(decoded)
}

// decodeArray handles the TJ operator's mixed array of strings and
// kerning numbers, preserving the original string order.
func decodeArray(arr string, cm *cmap) string {
	type tok struct {
		pos   int
		isHex bool
		body  string
	}
	var toks []tok
	for _, idx := range hexTokRE.FindAllStringSubmatchIndex(arr, -1) {
		toks = append(toks, tok{pos: idx[0], isHex: true, body: arr[idx[2]:idx[3]]})
	}
	for _, idx := range litTokRE.FindAllStringSubmatchIndex(arr, -1) {
		toks = append(toks, tok{pos: idx[0], body: arr[idx[2]:idx[3]]})
	}
	for i := 1; i < len(toks); i++ {
		for j := i; j > 0 && toks[j].pos < toks[j-1].pos; j-- {
			toks[j], toks[j-1] = toks[j-1], toks[j]
		}
	}

	var b strings.Builder
	for _, t := range toks {
		if t.isHex {
			b.WriteString(decodeHex(t.body, cm))
		} else {
			b.WriteString(decodeLiteral(t.body, cm))
		}
	}
	return b.String()
}

// unescapePDF resolves \n, \t, \(, octal escapes and friends in a
// literal PDF string.
func unescapePDF(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch c := s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '(', ')', '\\':
			b.WriteByte(c)
		default:
			if c >= '0' && c <= '7' {
				val := int(c - '0')
				for j := 0; j < 2 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(s[i]-'0')
				}
				if val < 256 {
					b.WriteByte(byte(val))
				}
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

func printableOnly(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		return -1
	}, s))
}

func mostlyPrintable(s string) bool {
	if s == "" {
		return false
	}
	n := 0
	for _, r := range s {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			n++
		}
	}
	return float64(n)/float64(len([]rune(s))) > 0.5
}
