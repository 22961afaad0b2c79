// Package chunker splits raw source text into an ordered sequence of
// overlapping chunks suitable for embedding. It prefers structural
// boundaries (function and class definitions) and falls back to fixed-size
// line windows for files without detectable structure.
package chunker

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxChunkSize is the target chunk size in characters.
	DefaultMaxChunkSize = 800
	// DefaultOverlap is the number of trailing lines carried over between
	// consecutive chunks so that boundary context (decorators, comments)
	// is preserved.
	DefaultOverlap = 100
)

// DefaultKeywords are the definition keywords used to detect structural
// section boundaries at line start.
var DefaultKeywords = []string{"def", "class", "func", "function"}

// Chunk is one emitted slice of a source file.
type Chunk struct {
	FilePath string
	Text     string
}

// Splitter splits source text into chunks. The zero value is not usable;
// construct with New.
type Splitter struct {
	maxChunkSize int
	overlap      int
	boundary     *regexp.Regexp
}

// New creates a Splitter. maxChunkSize is measured in characters, overlap
// in lines. Non-positive values fall back to the defaults.
func New(maxChunkSize, overlap int) *Splitter {
	return NewWithKeywords(maxChunkSize, overlap, DefaultKeywords)
}

// NewWithKeywords creates a Splitter with a custom boundary keyword set.
func NewWithKeywords(maxChunkSize, overlap int, keywords []string) *Splitter {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultOverlap
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 2
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = regexp.QuoteMeta(kw)
	}
	pattern := `(?m)^[ \t]*(?:` + strings.Join(escaped, "|") + `)\s`

	return &Splitter{
		maxChunkSize: maxChunkSize,
		overlap:      overlap,
		boundary:     regexp.MustCompile(pattern),
	}
}

// Split chunks text from filePath. It is a single pass: the returned slice
// is in source order and every chunk has non-empty trimmed content.
//
// Files with at least two structural sections take the merge path: sections
// are accumulated into a buffer up to maxChunkSize characters, and each
// flushed chunk seeds the next with its last overlap lines. A single
// section longer than maxChunkSize is emitted whole; it is not subdivided
// further, so chunks may exceed maxChunkSize in that case.
func (s *Splitter) Split(text, filePath string) []Chunk {
	sections := s.sections(text)
	if len(sections) < 2 {
		return s.splitByLines(text, filePath)
	}
	return s.mergeSections(sections, filePath)
}

// sections slices text at structural boundary offsets, dropping
// whitespace-only pieces. End-of-text acts as the final boundary.
func (s *Splitter) sections(text string) []string {
	matches := s.boundary.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	offsets := make([]int, 0, len(matches)+2)
	// Text before the first boundary (imports, package clause) is kept as
	// its own section.
	if matches[0][0] > 0 {
		offsets = append(offsets, 0)
	}
	for _, m := range matches {
		offsets = append(offsets, m[0])
	}
	offsets = append(offsets, len(text))

	var sections []string
	for i := 0; i+1 < len(offsets); i++ {
		sec := text[offsets[i]:offsets[i+1]]
		if strings.TrimSpace(sec) != "" {
			sections = append(sections, sec)
		}
	}
	return sections
}

// splitByLines is the fallback for unstructured files: fixed windows of
// maxChunkSize lines walked at a stride of maxChunkSize-overlap lines.
// Blank windows are filtered out.
func (s *Splitter) splitByLines(text, filePath string) []Chunk {
	lines := strings.Split(text, "\n")
	stride := s.maxChunkSize - s.overlap
	if stride < 1 {
		stride = 1
	}

	var chunks []Chunk
	for i := 0; i < len(lines); i += stride {
		end := i + s.maxChunkSize
		if end > len(lines) {
			end = len(lines)
		}
		window := strings.Join(lines[i:end], "\n")
		if strings.TrimSpace(window) == "" {
			continue
		}
		chunks = append(chunks, Chunk{FilePath: filePath, Text: window})
	}
	return chunks
}

// mergeSections accumulates sections into chunks of up to maxChunkSize
// characters with a sliding line overlap between consecutive chunks.
func (s *Splitter) mergeSections(sections []string, filePath string) []Chunk {
	var chunks []Chunk
	var buffer []string
	bufLen := 0

	flush := func() string {
		merged := strings.Join(buffer, "")
		chunks = append(chunks, Chunk{FilePath: filePath, Text: merged})
		return merged
	}

	for _, sec := range sections {
		if bufLen == 0 || bufLen+len(sec) <= s.maxChunkSize {
			buffer = append(buffer, sec)
			bufLen += len(sec)
			continue
		}

		merged := flush()
		tail := lastLines(merged, s.overlap)
		buffer = []string{tail, sec}
		bufLen = len(tail) + len(sec)
	}

	if bufLen > 0 {
		if merged := strings.Join(buffer, ""); strings.TrimSpace(merged) != "" {
			chunks = append(chunks, Chunk{FilePath: filePath, Text: merged})
		}
	}
	return chunks
}

// lastLines returns the final n lines of text joined by newlines.
func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
