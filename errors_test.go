package convoprint_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/convoprint/convoprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := convoprint.Errorf(convoprint.EINVALID, "bad url %q", "x")

	assert.Equal(t, convoprint.EINVALID, convoprint.ErrorCode(err))
	assert.Equal(t, `bad url "x"`, convoprint.ErrorMessage(err))
	assert.Empty(t, convoprint.ErrorDetail(err))
}

func TestError_ErrorOmitsDetail(t *testing.T) {
	t.Parallel()

	err := convoprint.WithDetail(
		convoprint.Errorf(convoprint.EUNPROCESSABLE, "no turns"),
		"content-type=text/html bytes=120",
	)

	assert.NotContains(t, err.Error(), "text/html")
	assert.Equal(t, "content-type=text/html bytes=120", convoprint.ErrorDetail(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, convoprint.ErrorCode(nil))
	})

	t.Run("non-application error reports internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, convoprint.EINTERNAL, convoprint.ErrorCode(errors.New("boom")))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		inner := convoprint.Errorf(convoprint.ETIMEOUT, "render timeout")
		wrapped := fmt.Errorf("extract: %w", inner)
		assert.Equal(t, convoprint.ETIMEOUT, convoprint.ErrorCode(wrapped))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("non-application error is masked", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", convoprint.ErrorMessage(errors.New("secret detail")))
	})
}

func TestWithDetail_NonApplicationError(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	err := convoprint.WithDetail(plain, "extra")

	require.Same(t, plain, err)
	assert.Empty(t, convoprint.ErrorDetail(err))
}
