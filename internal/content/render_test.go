package content

import (
	"strings"
	"testing"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ParagraphSanitized(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeParagraph,
		Content: `hello <script>alert(1)</script><b>world</b>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<b>world</b>")
}

func TestRender_HeadingEscaped(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeHeading,
		Content: `A <b>bold</b> title`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<h2>A &lt;b&gt;bold&lt;/b&gt; title</h2>", out)
}

func TestRender_CodeEscapedWithLanguage(t *testing.T) {
	lang := "go"
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeCode,
		Content: `fmt.Println("<hi>")`,
		Meta:    model.BlockMeta{Language: &lang},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `class="language-go"`)
	assert.Contains(t, out, "&lt;hi&gt;")
	assert.NotContains(t, out, "<hi>")
}

func TestRender_CodeDefaultsToPlaintext(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeCode,
		Content: "x := 1",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `class="language-plaintext"`)
}

func TestRender_ImageWithoutURLDegrades(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeImage,
		Content: "caption",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRender_CarouselWithoutURLsDegrades(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeImageCarousel,
		Content: "caption",
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRender_AlertDefaultsToInfo(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeAlert,
		Content: "heads up",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "alert-info")
}

func TestRender_AlertKeepsValidType(t *testing.T) {
	out, err := Render(model.ContentBlock{
		Type:    model.BlockTypeAlert,
		Content: "careful",
		Meta:    model.BlockMeta{AlertType: model.AlertWarning},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "alert-warning")
}

func TestRender_UnknownTypeIsError(t *testing.T) {
	_, err := Render(model.ContentBlock{Type: "video", Content: "x"})
	assert.Error(t, err)
}

func TestRenderAll_PreservesOrder(t *testing.T) {
	blocks := []model.ContentBlock{
		{ID: uuid.New(), Type: model.BlockTypeHeading, Content: "First"},
		{ID: uuid.New(), Type: model.BlockTypeParagraph, Content: "Second"},
	}

	out, err := RenderAll(blocks)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "First"), strings.Index(out, "Second"))
}
