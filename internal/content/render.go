package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips anything outside the usual user-generated-content
// whitelist from paragraph and alert HTML before it is served back.
var sanitizer = bluemonday.UGCPolicy()

// Render maps a single block to its HTML representation. The switch over
// the block type is exhaustive: an unknown type is a programming error
// and is returned as one, never silently skipped.
func Render(block model.ContentBlock) (string, error) {
	switch block.Type {
	case model.BlockTypeParagraph:
		return "<p>" + sanitizer.Sanitize(block.Content) + "</p>", nil

	case model.BlockTypeHeading:
		return "<h2>" + html.EscapeString(block.Content) + "</h2>", nil

	case model.BlockTypeCode:
		lang := "plaintext"
		if block.Meta.Language != nil && *block.Meta.Language != "" {
			lang = *block.Meta.Language
		}
		var b strings.Builder
		if block.Meta.Title != nil && *block.Meta.Title != "" {
			b.WriteString(`<div class="code-title">` + html.EscapeString(*block.Meta.Title) + "</div>")
		}
		b.WriteString(`<pre><code class="language-` + html.EscapeString(lang) + `">`)
		b.WriteString(html.EscapeString(block.Content))
		b.WriteString("</code></pre>")
		return b.String(), nil

	case model.BlockTypeImage:
		if block.Meta.ImageURL == nil || *block.Meta.ImageURL == "" {
			return "", nil
		}
		return fmt.Sprintf(
			`<figure><img src="%s" alt="%s"/><figcaption>%s</figcaption></figure>`,
			html.EscapeString(*block.Meta.ImageURL),
			html.EscapeString(block.Content),
			html.EscapeString(block.Content),
		), nil

	case model.BlockTypeImageCarousel:
		if len(block.Meta.ImageURLs) == 0 {
			return "", nil
		}
		var b strings.Builder
		b.WriteString(`<div class="carousel">`)
		for _, url := range block.Meta.ImageURLs {
			if url == "" {
				continue
			}
			b.WriteString(`<img src="` + html.EscapeString(url) + `"/>`)
		}
		if block.Content != "" {
			b.WriteString(`<figcaption>` + html.EscapeString(block.Content) + `</figcaption>`)
		}
		b.WriteString("</div>")
		return b.String(), nil

	case model.BlockTypeAlert:
		alertType := block.Meta.AlertType
		switch alertType {
		case model.AlertInfo, model.AlertWarning, model.AlertError:
		default:
			alertType = model.AlertInfo
		}
		return fmt.Sprintf(
			`<div class="alert alert-%s">%s</div>`,
			alertType,
			sanitizer.Sanitize(block.Content),
		), nil

	default:
		return "", fmt.Errorf("unhandled block type: %q", block.Type)
	}
}

// RenderAll renders an ordered block sequence, preserving order.
func RenderAll(blocks []model.ContentBlock) (string, error) {
	var b strings.Builder
	for _, block := range blocks {
		out, err := Render(block)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
