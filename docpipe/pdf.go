// CLAUDE:SUMMARY Content-stream backend using pdfcpu: tokenizes page content and emits positioned glyph runs.
// CLAUDE:DEPENDS docpipe/types.go
// CLAUDE:EXPORTS ContentStreamBackend, NewContentStreamBackend
package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	// pdfcpu otherwise writes a config dir under $HOME on first use.
	api.DisableConfigDir()
}

// tjWordGap is the TJ displacement (thousandths of text space) treated as a word break.
const tjWordGap = -200

// ContentStreamBackend reads page content streams through pdfcpu and decodes
// the text-showing operators. It follows the text matrix (Td, TD, Tm, T*, ')
// so that every shown string carries the position it was drawn at.
type ContentStreamBackend struct{}

// NewContentStreamBackend returns the pdfcpu content-stream backend.
func NewContentStreamBackend() *ContentStreamBackend { return &ContentStreamBackend{} }

func (b *ContentStreamBackend) Name() string { return "pdfcpu" }

// Pages implements Backend.
func (b *ContentStreamBackend) Pages(ctx context.Context, data []byte) (pages [][]GlyphRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdfcpu: panic: %v", r)
		}
	}()

	pctx, err := openPDF(data)
	if err != nil {
		return nil, err
	}

	pages = make([][]GlyphRun, 0, pctx.PageCount)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, extractPageRuns(pctx, pageNr))
	}
	return pages, nil
}

// HasImages reports whether the document carries image XObjects.
func (b *ContentStreamBackend) HasImages(data []byte) (found bool) {
	defer func() {
		if recover() != nil {
			found = false
		}
	}()
	pctx, err := openPDF(data)
	if err != nil {
		return false
	}
	return detectImageStreams(pctx)
}

func openPDF(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return pctx, nil
}

// extractPageRuns decodes the content stream of a single page.
func extractPageRuns(pctx *model.Context, pageNr int) []GlyphRun {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return nil
	}
	runs := extractRunsFromStream(data)
	for i := range runs {
		runs[i].Page = pageNr
	}
	return runs
}

// detectImageStreams checks if the PDF contains image XObjects.
func detectImageStreams(pctx *model.Context) bool {
	if pctx.Optimize != nil {
		for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(pctx, pageNr)) > 0 {
				return true
			}
		}
	}
	// Fallback: scan XRefTable for image subtype objects.
	for _, entry := range pctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// textState is the subset of the PDF text state needed to place runs.
type textState struct {
	lineX, lineY float64 // start of the current line (text line matrix)
	leading      float64
}

func (s *textState) nextLine() {
	s.lineY -= s.leading
}

// extractRunsFromStream parses a content stream and returns one run per
// text-showing operator, positioned at the current text line origin.
func extractRunsFromStream(data []byte) []GlyphRun {
	var (
		runs     []GlyphRun
		st       textState
		operands []token
	)
	emit := func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		runs = append(runs, GlyphRun{Text: text, X: st.lineX, Y: st.lineY})
	}
	num := func(i int) float64 {
		if i < 0 || i >= len(operands) || operands[i].kind != tokNumber {
			return 0
		}
		return operands[i].num
	}

	lx := &lexer{data: data}
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		n := len(operands)
		switch tok.text {
		case "BT":
			st.lineX, st.lineY = 0, 0
		case "TL":
			st.leading = num(n - 1)
		case "Td":
			st.lineX += num(n - 2)
			st.lineY += num(n - 1)
		case "TD":
			st.leading = -num(n - 1)
			st.lineX += num(n - 2)
			st.lineY += num(n - 1)
		case "Tm":
			st.lineX, st.lineY = num(n-2), num(n-1)
		case "T*":
			st.nextLine()
		case "Tj":
			if n > 0 {
				emit(operands[n-1].text)
			}
		case "'":
			st.nextLine()
			if n > 0 {
				emit(operands[n-1].text)
			}
		case "\"":
			st.nextLine()
			if n > 0 {
				emit(operands[n-1].text)
			}
		case "TJ":
			if n > 0 && operands[n-1].kind == tokArray {
				emit(joinTJ(operands[n-1].items))
			}
		}
		operands = operands[:0]
	}
	return runs
}

// joinTJ concatenates the strings of a TJ array, inserting a space where
// the displacement is wide enough to be a word gap.
func joinTJ(items []token) string {
	var sb strings.Builder
	for _, it := range items {
		switch it.kind {
		case tokString:
			sb.WriteString(it.text)
		case tokNumber:
			if it.num <= tjWordGap && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArray
	tokOperator
	tokOther
)

type token struct {
	kind  tokenKind
	text  string
	num   float64
	items []token
}

// lexer is a minimal PDF content stream tokenizer. Dictionaries and inline
// image data are skipped; only what text placement needs is decoded.
type lexer struct {
	data []byte
	pos  int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		if !isPDFSpace(c) {
			return
		}
		l.pos++
	}
}

func (l *lexer) next() (token, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{}, false
	}
	c := l.data[l.pos]
	switch {
	case c == '(':
		return token{kind: tokString, text: l.literalString()}, true
	case c == '<' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '<':
		l.skipDict()
		return token{kind: tokOther}, true
	case c == '<':
		return token{kind: tokString, text: l.hexString()}, true
	case c == '[':
		l.pos++
		var items []token
		for {
			l.skipSpace()
			if l.pos >= len(l.data) {
				break
			}
			if l.data[l.pos] == ']' {
				l.pos++
				break
			}
			it, ok := l.next()
			if !ok {
				break
			}
			items = append(items, it)
		}
		return token{kind: tokArray, items: items}, true
	case c == '/':
		start := l.pos
		l.pos++
		for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
			l.pos++
		}
		return token{kind: tokName, text: string(l.data[start:l.pos])}, true
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		l.pos++
		return token{kind: tokOther}, true
	}

	start := l.pos
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
		l.pos++
	}
	word := string(l.data[start:l.pos])
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, num: f, text: word}, true
	}
	if word == "BI" {
		l.skipInlineImage()
		return token{kind: tokOther}, true
	}
	return token{kind: tokOperator, text: word}, true
}

// literalString reads a balanced (...) string starting at l.pos.
func (l *lexer) literalString() string {
	l.pos++ // (
	depth := 1
	start := l.pos
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := l.data[start:l.pos]
				l.pos++
				return decodePDFString(raw)
			}
		}
		l.pos++
	}
	return decodePDFString(l.data[start:])
}

func (l *lexer) hexString() string {
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; isHexDigit(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, _ := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		raw = append(raw, byte(v))
	}
	return bytesToText(raw)
}

func (l *lexer) skipDict() {
	depth := 0
	for l.pos < len(l.data) {
		if l.pos+1 < len(l.data) && l.data[l.pos] == '<' && l.data[l.pos+1] == '<' {
			depth++
			l.pos += 2
			continue
		}
		if l.pos+1 < len(l.data) && l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			depth--
			l.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		l.pos++
	}
}

func (l *lexer) skipInlineImage() {
	idx := bytes.Index(l.data[l.pos:], []byte("EI"))
	if idx < 0 {
		l.pos = len(l.data)
		return
	}
	l.pos += idx + 2
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\\', '(', ')':
			out = append(out, raw[i])
		case '\n':
			// Line continuation.
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		default:
			// Octal escape (e.g. \040 for space).
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				out = append(out, byte(val))
			} else {
				out = append(out, raw[i])
			}
		}
	}
	return bytesToText(out)
}

// bytesToText maps single-byte encoded text to UTF-8, treating high bytes as Latin-1.
func bytesToText(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, c := range raw {
		if c < 0x80 {
			sb.WriteByte(c)
		} else {
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}
