package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CodeSphere/api-service/internal/model"
)

const (
	MAX_TITLE_LEN    = 200
	MAX_SUBTITLE_LEN = 300
)

var (
	ErrNoBlocks        = errors.New("post must have at least one block")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = fmt.Errorf("title must be at most %d characters", MAX_TITLE_LEN)
	ErrSubtitleTooLong = fmt.Errorf("subtitle must be at most %d characters", MAX_SUBTITLE_LEN)
	ErrInvalidStatus   = errors.New("invalid post status")
	ErrScheduleTime    = errors.New("scheduled posts require a future schedule time")
)

// BlockErrors maps a block's position in the sequence to its validation
// message, so callers can attribute failures to the offending block
// instead of reporting one global error.
type BlockErrors map[int]string

// ValidateBlocks checks a block sequence at submission time. Blocks are
// free to be blank while a draft is being edited; only a submitted
// sequence must be non-empty with non-blank content throughout.
func ValidateBlocks(blocks []model.ContentBlock) (BlockErrors, error) {
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}

	blockErrs := make(BlockErrors)
	for i, block := range blocks {
		if !block.Type.Valid() {
			blockErrs[i] = fmt.Sprintf("unknown block type %q", block.Type)
			continue
		}
		if strings.TrimSpace(block.Content) == "" {
			blockErrs[i] = "block content must not be blank"
		}
	}

	if len(blockErrs) > 0 {
		return blockErrs, nil
	}

	return nil, nil
}
