package flags_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amiverse/internal/cmd/flags"
)

func TestValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, flags.LogLevel.Validator("debug"))
	require.ErrorIs(t, flags.LogLevel.Validator("trace"), flags.ErrInvalidFlag)

	require.NoError(t, flags.BackendURL.Validator("https://ami.example"))
	require.ErrorIs(t, flags.BackendURL.Validator("localhost"), flags.ErrInvalidFlag)

	require.NoError(t, flags.Visibility.Validator("followers_only"))
	require.ErrorIs(t, flags.Visibility.Validator("public"), flags.ErrInvalidFlag)

	require.ErrorIs(t, flags.PollInterval.Validator(0), flags.ErrInvalidFlag)
	require.NoError(t, flags.PollInterval.Validator(time.Second))
}
