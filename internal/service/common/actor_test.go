//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectRequester ensures the requester has both user and host parts.
func TestDetectRequester(t *testing.T) {
	t.Parallel()

	requester, err := DetectRequester()
	require.NoError(t, err)

	user, host, ok := strings.Cut(requester, "@")
	require.True(t, ok)
	require.NotEmpty(t, user)
	require.NotEmpty(t, host)
}
