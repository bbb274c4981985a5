package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// createTestPPTX creates a minimal PPTX archive with the given slide bodies.
// Keys are slide numbers.
func createTestPPTX(slides map[int]string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	ct, _ := w.Create("[Content_Types].xml")
	ct.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types/>`))

	for n, body := range slides {
		f, _ := w.Create(fmt.Sprintf("ppt/slides/slide%d.xml", n))
		f.Write([]byte(wrapSlide(body)))
	}

	// Layout parts are not slides and must be ignored.
	layout, _ := w.Create("ppt/slideLayouts/slideLayout1.xml")
	layout.Write([]byte(wrapSlide(textShape("layout text"))))

	w.Close()
	return buf.Bytes()
}

func wrapSlide(shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>` + shapes + `</p:spTree></p:cSld></p:sld>`
}

func textShape(paragraphs ...string) string {
	s := `<p:sp><p:txBody><a:bodyPr/>`
	for _, p := range paragraphs {
		s += `<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`
	}
	return s + `</p:txBody></p:sp>`
}

func parse(t *testing.T, content []byte) (string, error) {
	t.Helper()
	return New().Parse(context.Background(), &domain.RawDocument{
		Path:      "/deck.pptx",
		Extension: ".pptx",
		Content:   content,
	})
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pptx"}, New().Extensions())
}

func TestParse_SlideOrder(t *testing.T) {
	content := createTestPPTX(map[int]string{
		10: textShape("tenth"),
		2:  textShape("second"),
		1:  textShape("Title", "Subtitle"),
	})

	text, err := parse(t, content)
	require.NoError(t, err)
	assert.Equal(t, "Title\nSubtitle\nsecond\ntenth", text)
}

func TestParse_MultipleShapesAndRuns(t *testing.T) {
	body := textShape("one") +
		`<p:pic><p:nvPicPr/></p:pic>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>Hello </a:t></a:r><a:r><a:t>there</a:t></a:r><a:br/><a:r><a:t>again</a:t></a:r></a:p></p:txBody></p:sp>`

	text, err := parse(t, createTestPPTX(map[int]string{1: body}))
	require.NoError(t, err)
	assert.Equal(t, "one\nHello there\nagain", text)
}

func TestParse_ShapeWithoutText(t *testing.T) {
	body := textShape("a") + `<p:sp><p:spPr/></p:sp>` + textShape("b")

	text, err := parse(t, createTestPPTX(map[int]string{1: body}))
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", text)
}

func TestParse_NoSlides(t *testing.T) {
	text, err := parse(t, createTestPPTX(nil))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestParse_InvalidZip(t *testing.T) {
	_, err := parse(t, []byte("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_MalformedSlide(t *testing.T) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("ppt/slides/slide1.xml")
	f.Write([]byte("<p:sld><p:cSld>"))
	w.Close()

	_, err := parse(t, buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_NilDocument(t *testing.T) {
	_, err := New().Parse(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
