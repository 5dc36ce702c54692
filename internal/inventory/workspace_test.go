package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveDirectoryHandlesReadOnlyEntries(testInstance *testing.T) {
	clonePath := filepath.Join(testInstance.TempDir(), "svc-a")
	objectsPath := filepath.Join(clonePath, ".git", "objects", "pack")
	require.NoError(testInstance, os.MkdirAll(objectsPath, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(objectsPath, "pack-1.pack"), []byte("pack"), 0o444))
	require.NoError(testInstance, os.Chmod(objectsPath, 0o555))

	require.NoError(testInstance, removeDirectory(clonePath))
	require.NoDirExists(testInstance, clonePath)

	require.NoError(testInstance, removeDirectory(clonePath))
}

func TestCommandRecorderWritesOneCommandPerLine(testInstance *testing.T) {
	recorder := NewCommandRecorder()
	commandsFile := filepath.Join(testInstance.TempDir(), "commands.txt")

	require.NoError(testInstance, recorder.WriteFile(commandsFile))
	emptyContent, readError := os.ReadFile(commandsFile)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, emptyContent)

	var nilRecorder *CommandRecorder
	require.Nil(testInstance, nilRecorder.Commands())
}
