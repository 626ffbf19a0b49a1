package shared_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsenna/gitopolis/internal/repos/shared"
)

func TestRemoteSyncDirectionFromFlags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		readRemotes   bool
		writeRemotes  bool
		expected      shared.RemoteSyncDirection
		expectedLabel string
		expectError   bool
	}{
		{name: "read", readRemotes: true, expected: shared.RemoteSyncRead, expectedLabel: "read"},
		{name: "write", writeRemotes: true, expected: shared.RemoteSyncWrite, expectedLabel: "write"},
		{name: "neither", expectError: true},
		{name: "both", readRemotes: true, writeRemotes: true, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			direction, err := shared.RemoteSyncDirectionFromFlags(testCase.readRemotes, testCase.writeRemotes)
			if testCase.expectError {
				require.ErrorIs(t, err, shared.ErrRemoteSyncDirectionRequired)
				require.Equal(t, "unspecified", direction.String())
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, direction)
			require.Equal(t, testCase.expectedLabel, direction.String())
		})
	}
}

func TestWriterReporter(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	reporter := shared.NewWriterReporter(&buffer)
	reporter.Printf("CLONED: %s\n", "api")
	require.Equal(t, "CLONED: api\n", buffer.String())

	require.NotPanics(t, func() {
		shared.NewWriterReporter(nil).Printf("ignored %d", 1)
	})
}
