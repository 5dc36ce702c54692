package utils_test

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clocscan/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriter(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := writer.Write([]byte("[1/1] acme-svc-a\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "[1/1] acme-svc-a\n", destination.String())

	require.Same(testInstance, writer, utils.NewFlushingWriter(writer))
}

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/clocscan/config.yaml")
	executionContext = accessor.WithEnvironmentFiles(executionContext, []string{".env"})

	configurationFilePath, available := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, available)
	require.Equal(testInstance, "/etc/clocscan/config.yaml", configurationFilePath)
	require.Equal(testInstance, []string{".env"}, accessor.EnvironmentFiles(executionContext))

	_, missing := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, missing)
}
