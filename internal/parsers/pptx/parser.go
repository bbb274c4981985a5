// Package pptx extracts shape text from PowerPoint presentations.
package pptx

import (
	"archive/zip"
	"bytes"
	"cmp"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Parser handles PPTX presentations.
type Parser struct{}

// New creates a new PPTX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pptx"}
}

// Parse returns the text of every shape on every slide, in slide order,
// one shape per line. Pictures, tables and groups carry no text.
func (p *Parser) Parse(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return "", fmt.Errorf("%w: not a pptx archive: %w", domain.ErrInvalidInput, err)
	}

	var texts []string
	for _, slide := range orderedSlides(reader) {
		shapes, err := readSlide(slide.file)
		if err != nil {
			return "", err
		}
		texts = append(texts, shapes...)
	}

	return strings.Join(texts, "\n"), nil
}

type slideFile struct {
	number int
	file   *zip.File
}

// orderedSlides returns the slide parts sorted by slide number.
func orderedSlides(reader *zip.Reader) []slideFile {
	var slides []slideFile
	for _, f := range reader.File {
		m := slidePart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{number: n, file: f})
	}
	slices.SortFunc(slides, func(a, b slideFile) int {
		return cmp.Compare(a.number, b.number)
	})
	return slides
}

// slideXML represents the parts of ppt/slides/slideN.xml we read.
type slideXML struct {
	Shapes []shape `xml:"cSld>spTree>sp"`
}

type shape struct {
	Paragraphs []textParagraph `xml:"txBody>p"`
}

type textParagraph struct {
	Children []paragraphChild `xml:",any"`
}

// paragraphChild is a run, field, line break or property element.
type paragraphChild struct {
	XMLName xml.Name
	Text    string `xml:"t"`
}

func (s shape) text() string {
	var b strings.Builder
	for i, para := range s.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, child := range para.Children {
			switch child.XMLName.Local {
			case "r", "fld":
				b.WriteString(child.Text)
			case "br":
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func readSlide(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}

	var slide slideXML
	if err := xml.Unmarshal(content, &slide); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %w", domain.ErrInvalidInput, f.Name, err)
	}

	texts := make([]string, 0, len(slide.Shapes))
	for _, s := range slide.Shapes {
		texts = append(texts, s.text())
	}
	return texts, nil
}
