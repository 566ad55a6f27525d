package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatErrorsWrapFormat(t *testing.T) {
	for _, err := range []error{ErrBadMagic, ErrTruncated, ErrUnsupportedVersion} {
		require.ErrorIs(t, err, ErrFormat)
	}

	wrapped := fmt.Errorf("camera %q: %w", "cam0", ErrTruncated)
	require.ErrorIs(t, wrapped, ErrFormat)
	require.ErrorIs(t, wrapped, ErrTruncated)
	require.False(t, errors.Is(wrapped, ErrMalformedRecord))
}
