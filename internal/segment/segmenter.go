package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
)

// Method records how a chunk boundary was chosen. Boundary chunks end at a
// sentence or section break; forced chunks were cut mid-sentence because the
// buffer hit the size ceiling.
type Method string

const (
	MethodBoundary Method = "boundary"
	MethodForced   Method = "forced_split"
)

// DefaultSection is used when no heading precedes a chunk.
const DefaultSection = "content_section"

var ErrInvalidParams = errors.New("invalid segmentation parameters")

type Params struct {
	TargetSize   int
	MaxSize      int
	MinSize      int
	OverlapRatio float64

	// Optimal window for the quality score bonus. Zero values fall back to
	// the 300..1200 defaults.
	OptimalMin int
	OptimalMax int
}

func (p Params) Validate() error {
	if p.MinSize <= 0 || p.MinSize >= p.TargetSize || p.TargetSize >= p.MaxSize {
		return fmt.Errorf("%w: need 0 < min < target < max, got min=%d target=%d max=%d",
			ErrInvalidParams, p.MinSize, p.TargetSize, p.MaxSize)
	}
	if p.OverlapRatio < 0 || p.OverlapRatio >= 1 {
		return fmt.Errorf("%w: overlap ratio %v outside [0,1)", ErrInvalidParams, p.OverlapRatio)
	}
	return nil
}

func (p Params) overlapChars() int {
	return int(p.OverlapRatio * float64(p.TargetSize))
}

// Chunk is a bounded span of document text. Content may begin with a prefix
// repeated from the previous chunk; OverlapLen is the length of that prefix
// so Content[OverlapLen:] is the chunk's own (non-overlap) span.
type Chunk struct {
	ID         string
	Content    string
	Section    string
	Position   int
	Method     Method
	OverlapLen int
}

// NonOverlap returns the portion of Content not repeated from the previous
// chunk. Concatenating non-overlap spans in order reconstructs the source
// text up to whitespace normalization.
func (c Chunk) NonOverlap() string {
	if c.OverlapLen <= 0 || c.OverlapLen > len(c.Content) {
		return c.Content
	}
	return c.Content[c.OverlapLen:]
}

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+`)
	numberedRe = regexp.MustCompile(`^(?:\d+[.)]\s+\S|(?i:section|article|part|coverage)\s+[A-Z0-9])`)
)

// isHeading flags structural boundaries: short all-caps lines and numbered or
// titled lines under ~100 characters.
func isHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) >= 100 {
		return false
	}
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= 3 && upper == letters {
		return true
	}
	return numberedRe.MatchString(line) && !strings.HasSuffix(line, ".")
}

func sectionName(heading string) string {
	return strings.TrimRight(strings.TrimSpace(heading), ":.- ")
}

// unit is one accumulation step: a sentence, bullet line, or heading line.
// Heading units also carry the section name they open.
type unit struct {
	text          string
	startsSection bool
	section       string
}

func splitUnits(text string) []unit {
	var units []unit
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isHeading(trimmed) {
			units = append(units, unit{text: trimmed, startsSection: true, section: sectionName(trimmed)})
			continue
		}
		for _, s := range sentenceRe.FindAllString(trimmed, -1) {
			s = strings.TrimSpace(s)
			if s != "" {
				units = append(units, unit{text: s})
			}
		}
	}
	return units
}

// rawChunk is a chunk before the overlap prefix is applied.
type rawChunk struct {
	content string
	section string
	method  Method
}

// Split segments extracted document text into size-bounded, boundary-aware
// chunks with controlled overlap. Empty or whitespace-only input yields a nil
// slice. Output is deterministic for fixed inputs and parameters.
func Split(text string, docType document.Type, p Params) ([]Chunk, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	overlap := p.overlapChars()
	// The overlap prefix and its separator count toward a chunk's content
	// length, so the accumulation caps shrink by the same amount to keep
	// every emitted chunk within MaxSize.
	pad := 0
	if overlap > 0 {
		pad = overlap + 1
	}
	effTarget := p.TargetSize - pad
	effMax := p.MaxSize - pad

	units := splitUnits(text)
	raws := accumulate(units, effTarget, effMax, p.MinSize)
	if len(raws) == 0 {
		return nil, nil
	}

	return applyOverlap(raws, overlap), nil
}

func accumulate(units []unit, effTarget, effMax, minSize int) []rawChunk {
	var (
		raws    []rawChunk
		buf     strings.Builder
		section = DefaultSection
		// section in effect when the current buffer started
		bufSection = DefaultSection
	)

	flush := func(m Method) {
		if buf.Len() == 0 {
			return
		}
		raws = append(raws, rawChunk{content: buf.String(), section: bufSection, method: m})
		buf.Reset()
		bufSection = section
	}

	add := func(s string) {
		if buf.Len() == 0 {
			bufSection = section
		} else {
			buf.WriteByte(' ')
		}
		buf.WriteString(s)
	}

	for _, u := range units {
		if u.startsSection {
			// Section breaks are preferred emission points, but tiny
			// buffers ride along into the new section.
			if buf.Len() >= minSize {
				flush(MethodBoundary)
			}
			section = u.section
			if buf.Len() == 0 {
				bufSection = section
			}
		}

		text := u.text
		if buf.Len() > 0 && buf.Len()+1+len(text) > effMax {
			if buf.Len() >= minSize {
				flush(MethodBoundary)
			} else {
				// Flushing here would emit a non-final chunk below the
				// minimum, so top the buffer up with a forced cut instead.
				room := effMax - buf.Len() - 1
				add(text[:room])
				flush(MethodForced)
				text = text[room:]
			}
		}

		if len(text) > effMax {
			// A single unit longer than the ceiling is cut mid-sentence.
			for len(text) > effMax {
				add(text[:effMax])
				flush(MethodForced)
				text = text[effMax:]
			}
			if len(text) > 0 {
				add(text)
			}
		} else {
			add(text)
		}

		if buf.Len() >= effTarget {
			flush(MethodBoundary)
		}
	}

	// Trailing fragment: merge into the previous chunk when that does not
	// breach the ceiling, otherwise let it stand as a short final chunk.
	if buf.Len() > 0 {
		last := len(raws) - 1
		if buf.Len() < minSize && last >= 0 && len(raws[last].content)+1+buf.Len() <= effMax {
			raws[last].content += " " + buf.String()
		} else {
			raws = append(raws, rawChunk{content: buf.String(), section: bufSection, method: MethodBoundary})
		}
	}

	return raws
}

func applyOverlap(raws []rawChunk, overlap int) []Chunk {
	chunks := make([]Chunk, 0, len(raws))
	for i, r := range raws {
		c := Chunk{
			ID:       fmt.Sprintf("chunk_%d", i),
			Content:  r.content,
			Section:  r.section,
			Position: i,
			Method:   r.method,
		}
		if i > 0 && overlap > 0 {
			prefix := overlapTail(raws[i-1].content, overlap)
			if prefix != "" {
				c.Content = prefix + " " + r.content
				c.OverlapLen = len(prefix) + 1
			}
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// overlapTail returns the final n characters of prev, snapped forward to the
// nearest word boundary so the prefix never starts mid-word.
func overlapTail(prev string, n int) string {
	if n <= 0 || len(prev) == 0 {
		return ""
	}
	if n >= len(prev) {
		return prev
	}
	tail := prev[len(prev)-n:]
	if idx := strings.IndexByte(tail, ' '); idx >= 0 && idx < len(tail)-1 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}

// QualityScore rates a chunk in [0,1]: baseline 0.5, +0.2 for content length
// in [200,1500], +0.1 for a boundary-based split, +0.1 for landing inside the
// configured optimal window.
func QualityScore(c Chunk, p Params) float64 {
	score := 0.5
	n := len(c.Content)
	if n >= 200 && n <= 1500 {
		score += 0.2
	}
	if c.Method == MethodBoundary {
		score += 0.1
	}
	optMin, optMax := p.OptimalMin, p.OptimalMax
	if optMin <= 0 {
		optMin = 300
	}
	if optMax <= 0 {
		optMax = 1200
	}
	if n >= optMin && n <= optMax {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}
