package content

import (
	"testing"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(text string) model.ContentBlock {
	return model.ContentBlock{
		ID:      uuid.New(),
		Type:    model.BlockTypeParagraph,
		Content: text,
	}
}

func TestValidateBlocks_Empty(t *testing.T) {
	_, err := ValidateBlocks(nil)
	assert.ErrorIs(t, err, ErrNoBlocks)

	_, err = ValidateBlocks([]model.ContentBlock{})
	assert.ErrorIs(t, err, ErrNoBlocks)
}

func TestValidateBlocks_BlankContentAttributedToIndex(t *testing.T) {
	blockErrs, err := ValidateBlocks([]model.ContentBlock{paragraph("")})
	require.NoError(t, err)
	require.Len(t, blockErrs, 1)
	assert.Contains(t, blockErrs[0], "blank")
}

func TestValidateBlocks_WhitespaceIsBlank(t *testing.T) {
	blockErrs, err := ValidateBlocks([]model.ContentBlock{
		paragraph("fine"),
		paragraph("   \t\n"),
	})
	require.NoError(t, err)
	require.Len(t, blockErrs, 1)
	_, ok := blockErrs[1]
	assert.True(t, ok)
}

func TestValidateBlocks_UnknownType(t *testing.T) {
	blockErrs, err := ValidateBlocks([]model.ContentBlock{
		{ID: uuid.New(), Type: "video", Content: "x"},
	})
	require.NoError(t, err)
	require.Len(t, blockErrs, 1)
	assert.Contains(t, blockErrs[0], "video")
}

func TestValidateBlocks_Valid(t *testing.T) {
	blockErrs, err := ValidateBlocks([]model.ContentBlock{
		paragraph("hello"),
		{ID: uuid.New(), Type: model.BlockTypeHeading, Content: "Intro"},
	})
	require.NoError(t, err)
	assert.Empty(t, blockErrs)
}
