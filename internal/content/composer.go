package content

import (
	"errors"
	"strings"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrInvalidType   = errors.New("invalid block type")
	ErrInvalidMove   = errors.New("move position out of range")
)

// Submission is the payload a composer hands to its submit callback.
// The composer itself knows nothing about transport.
type Submission struct {
	Title       string               `json:"title"`
	Subtitle    *string              `json:"subtitle,omitempty"`
	Tags        []model.Tag          `json:"tags"`
	Status      model.PostStatus     `json:"status"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
	Blocks      []model.ContentBlock `json:"content_blocks"`
}

// Composer holds a post draft: an ordered, reorderable block sequence
// plus the post metadata form. Array-level operations live here; editing
// a single block's content is the editor's job and arrives through
// ReplaceBlock as a full replacement value.
type Composer struct {
	Title       string
	Subtitle    *string
	Tags        []model.Tag
	Status      model.PostStatus
	ScheduledAt *time.Time

	blocks []model.ContentBlock
}

func NewComposer() *Composer {
	return &Composer{
		Status: model.PostStatusDraft,
	}
}

// Blocks returns a copy of the current sequence in order.
func (c *Composer) Blocks() []model.ContentBlock {
	out := make([]model.ContentBlock, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// AddBlock appends a fresh block of the given type with type-appropriate
// default meta and returns it.
func (c *Composer) AddBlock(t model.BlockType) (model.ContentBlock, error) {
	if !t.Valid() {
		return model.ContentBlock{}, ErrInvalidType
	}

	block := model.ContentBlock{
		ID:   uuid.New(),
		Type: t,
	}
	switch t {
	case model.BlockTypeAlert:
		block.Meta.AlertType = model.AlertInfo
	case model.BlockTypeCode:
		lang := "plaintext"
		block.Meta.Language = &lang
	}

	c.blocks = append(c.blocks, block)
	return block, nil
}

// ReplaceBlock swaps the block with the same ID for the given value.
// ID and type are preserved from the existing block; editors never
// change either.
func (c *Composer) ReplaceBlock(block model.ContentBlock) error {
	for i := range c.blocks {
		if c.blocks[i].ID == block.ID {
			block.Type = c.blocks[i].Type
			c.blocks[i] = block
			return nil
		}
	}
	return ErrBlockNotFound
}

// RemoveBlock filters the block out. A draft may drop to zero blocks
// while editing; the minimum is only enforced at submit.
func (c *Composer) RemoveBlock(id uuid.UUID) error {
	for i := range c.blocks {
		if c.blocks[i].ID == id {
			c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
			return nil
		}
	}
	return ErrBlockNotFound
}

// DuplicateBlock clones a block under a fresh ID and inserts the clone
// immediately after the original.
func (c *Composer) DuplicateBlock(id uuid.UUID) (model.ContentBlock, error) {
	for i := range c.blocks {
		if c.blocks[i].ID != id {
			continue
		}

		clone := c.blocks[i]
		clone.ID = uuid.New()
		if n := len(c.blocks[i].Meta.ImageURLs); n > 0 {
			clone.Meta.ImageURLs = make([]string, n)
			copy(clone.Meta.ImageURLs, c.blocks[i].Meta.ImageURLs)
		}

		c.blocks = append(c.blocks, model.ContentBlock{})
		copy(c.blocks[i+2:], c.blocks[i+1:])
		c.blocks[i+1] = clone
		return clone, nil
	}
	return model.ContentBlock{}, ErrBlockNotFound
}

// Move splices the block at from into position to, keeping the relative
// order of every other block.
func (c *Composer) Move(from, to int) error {
	if from < 0 || from >= len(c.blocks) || to < 0 || to >= len(c.blocks) {
		return ErrInvalidMove
	}
	if from == to {
		return nil
	}

	block := c.blocks[from]
	c.blocks = append(c.blocks[:from], c.blocks[from+1:]...)
	c.blocks = append(c.blocks, model.ContentBlock{})
	copy(c.blocks[to+1:], c.blocks[to:])
	c.blocks[to] = block
	return nil
}

// Validate applies the submission rules: metadata bounds plus the block
// sequence rules from ValidateBlocks.
func (c *Composer) Validate() (BlockErrors, error) {
	if strings.TrimSpace(c.Title) == "" {
		return nil, ErrTitleRequired
	}
	if len(c.Title) > MAX_TITLE_LEN {
		return nil, ErrTitleTooLong
	}
	if c.Subtitle != nil && len(*c.Subtitle) > MAX_SUBTITLE_LEN {
		return nil, ErrSubtitleTooLong
	}
	if !c.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if c.Status == model.PostStatusScheduled && (c.ScheduledAt == nil || !c.ScheduledAt.After(time.Now())) {
		return nil, ErrScheduleTime
	}

	return ValidateBlocks(c.blocks)
}

// Submit validates the draft and, if it passes, hands the full payload
// to the given callback.
func (c *Composer) Submit(fn func(Submission) error) (BlockErrors, error) {
	blockErrs, err := c.Validate()
	if err != nil || len(blockErrs) > 0 {
		return blockErrs, err
	}

	return nil, fn(Submission{
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Tags:        c.Tags,
		Status:      c.Status,
		ScheduledAt: c.ScheduledAt,
		Blocks:      c.Blocks(),
	})
}
