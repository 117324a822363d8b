package model

import "github.com/google/uuid"

type BlockType string

const (
	BlockTypeParagraph     BlockType = "paragraph"
	BlockTypeHeading       BlockType = "heading"
	BlockTypeCode          BlockType = "code"
	BlockTypeImage         BlockType = "image"
	BlockTypeImageCarousel BlockType = "image-carousel"
	BlockTypeAlert         BlockType = "alert"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeParagraph, BlockTypeHeading, BlockTypeCode, BlockTypeImage, BlockTypeImageCarousel, BlockTypeAlert:
		return true
	}
	return false
}

type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// BlockMeta is the union of every variant's optional fields.
// Each variant reads only its own subset; unknown keys are ignored.
type BlockMeta struct {
	Title     *string   `json:"title,omitempty"`
	Language  *string   `json:"language,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	ImageURLs []string  `json:"image_urls,omitempty"`
	AlertType AlertType `json:"alert_type,omitempty"`
}

type ContentBlock struct {
	ID      uuid.UUID `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	Meta    BlockMeta `json:"meta"`
}
