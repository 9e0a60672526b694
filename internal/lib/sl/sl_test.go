package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamingstar/streaming-star/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestUID_ReturnsCorrectAttr(t *testing.T) {
	attr := sl.UID("2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de")

	assert.Equal(t, "user_uid", attr.Key)
	assert.Equal(t, slog.StringValue("2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de"), attr.Value)
}
