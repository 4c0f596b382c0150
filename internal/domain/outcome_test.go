package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutcomeRecord(t *testing.T) {
	record, err := NewOutcomeRecord("https://s/feed", "A Title", "a summary", "https://s/post", DispositionUseful)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, DispositionUseful, record.Disposition)
	assert.Nil(t, record.Verdict)
	assert.Empty(t, record.PublishID)
	assert.Empty(t, record.ErrorDetail)
}

func TestNewOutcomeRecordValidation(t *testing.T) {
	t.Run("empty source URL", func(t *testing.T) {
		record, err := NewOutcomeRecord("", "t", "s", "https://a", DispositionUseful)
		assert.Nil(t, record)
		assert.ErrorIs(t, err, ErrEmptyOutcomeSource)
	})

	t.Run("unknown disposition", func(t *testing.T) {
		record, err := NewOutcomeRecord("https://s", "t", "s", "https://a", Disposition("bogus"))
		assert.Nil(t, record)
		assert.ErrorIs(t, err, ErrInvalidDisposition)
	})
}

func TestDispositionValues(t *testing.T) {
	// Disposition strings are persisted; changing them silently breaks
	// existing rows.
	assert.Equal(t, Disposition("useful"), DispositionUseful)
	assert.Equal(t, Disposition("useless"), DispositionUseless)
	assert.Equal(t, Disposition("failed"), DispositionFailed)
	assert.Equal(t, Disposition("skip"), DispositionSkipped)
}
