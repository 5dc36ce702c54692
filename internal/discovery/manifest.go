package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	yamlIndentSpacesConstant       = 2
	jsonIndentPrefixConstant       = ""
	jsonIndentValueConstant        = "  "
	unsupportedFormatTemplate      = "unsupported manifest format %q"
	manifestStandardOutputConstant = "stdout"
)

// ManifestFormat is the serialization used for manifests.
type ManifestFormat string

// Supported manifest formats.
const (
	ManifestFormatYAML ManifestFormat = "yaml"
	ManifestFormatJSON ManifestFormat = "json"
)

// ParseManifestFormat resolves a format name case-insensitively.
func ParseManifestFormat(rawFormat string) (ManifestFormat, error) {
	switch ManifestFormat(strings.ToLower(strings.TrimSpace(rawFormat))) {
	case ManifestFormatYAML, "yml", "":
		return ManifestFormatYAML, nil
	case ManifestFormatJSON:
		return ManifestFormatJSON, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplate, rawFormat)
	}
}

// ReadManifestFile loads records from a YAML or JSON manifest. Records without an id get one derived
// from their organization, project, and repository names.
func ReadManifestFile(manifestPath string) ([]RepositoryRecord, error) {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return nil, ManifestError{Path: manifestPath, Cause: readError}
	}
	return decodeManifest(manifestPath, manifestContent)
}

func decodeManifest(manifestPath string, manifestContent []byte) ([]RepositoryRecord, error) {
	if len(bytes.TrimSpace(manifestContent)) == 0 {
		return []RepositoryRecord{}, nil
	}

	var records []RepositoryRecord
	if decodeError := yaml.Unmarshal(manifestContent, &records); decodeError != nil {
		return nil, ManifestError{Path: manifestPath, Cause: decodeError}
	}

	for recordIndex := range records {
		if len(strings.TrimSpace(records[recordIndex].ID)) == 0 {
			records[recordIndex].ID = BuildRepositoryID(records[recordIndex].OrganizationName, records[recordIndex].ProjectName, records[recordIndex].RepositoryName)
		}
	}
	if records == nil {
		records = []RepositoryRecord{}
	}
	return records, nil
}

// WriteManifest serializes records in the requested format.
func WriteManifest(writer io.Writer, records []RepositoryRecord, format ManifestFormat) error {
	if records == nil {
		records = []RepositoryRecord{}
	}

	switch format {
	case ManifestFormatJSON:
		encodedRecords, encodeError := json.MarshalIndent(records, jsonIndentPrefixConstant, jsonIndentValueConstant)
		if encodeError != nil {
			return ManifestError{Path: manifestStandardOutputConstant, Cause: encodeError}
		}
		encodedRecords = append(encodedRecords, '\n')
		if _, writeError := writer.Write(encodedRecords); writeError != nil {
			return ManifestError{Path: manifestStandardOutputConstant, Cause: writeError}
		}
		return nil
	case ManifestFormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(yamlIndentSpacesConstant)
		if encodeError := encoder.Encode(records); encodeError != nil {
			return ManifestError{Path: manifestStandardOutputConstant, Cause: encodeError}
		}
		if closeError := encoder.Close(); closeError != nil {
			return ManifestError{Path: manifestStandardOutputConstant, Cause: closeError}
		}
		return nil
	default:
		return fmt.Errorf(unsupportedFormatTemplate, format)
	}
}

// WriteManifestFile writes records to manifestPath, replacing any existing file.
func WriteManifestFile(manifestPath string, records []RepositoryRecord, format ManifestFormat) error {
	var buffer bytes.Buffer
	if encodeError := WriteManifest(&buffer, records, format); encodeError != nil {
		return encodeError
	}
	if writeError := os.WriteFile(manifestPath, buffer.Bytes(), 0o600); writeError != nil {
		return ManifestError{Path: manifestPath, Cause: writeError}
	}
	return nil
}
