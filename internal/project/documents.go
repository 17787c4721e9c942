package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	fileSystemNotConfiguredMessageConstant = "document reader file system not configured"
	manifestVersionMissingMessageConstant  = "manifest does not declare a version"
	readDocumentTemplateConstant           = "failed to read %s: %w"
	parseManifestTemplateConstant          = "failed to parse manifest %s: %w"
	manifestVersionMissingTemplateConstant = "%s: %w"
	changelogHeadingPatternTemplate        = `(?m)^#+ +%s\r?$`
	yamlExtensionConstant                  = ".yaml"
	ymlExtensionConstant                   = ".yml"
)

// ErrFileSystemNotConfigured indicates a nil file system was supplied.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// ErrManifestVersionMissing indicates the manifest has no version field.
var ErrManifestVersionMissing = errors.New(manifestVersionMissingMessageConstant)

type manifestDocument struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// DocumentReader reads project documents from a file system.
type DocumentReader struct {
	fileSystem afero.Fs
}

// NewDocumentReader constructs a DocumentReader over the file system.
func NewDocumentReader(fileSystem afero.Fs) (*DocumentReader, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &DocumentReader{fileSystem: fileSystem}, nil
}

// ManifestVersion returns the version declared by the manifest.
// YAML manifests are recognised by extension; anything else is parsed as JSON with comments allowed.
func (reader *DocumentReader) ManifestVersion(manifestPath string) (string, error) {
	contents, readError := afero.ReadFile(reader.fileSystem, manifestPath)
	if readError != nil {
		return "", fmt.Errorf(readDocumentTemplateConstant, manifestPath, readError)
	}

	var manifest manifestDocument
	switch strings.ToLower(filepath.Ext(manifestPath)) {
	case yamlExtensionConstant, ymlExtensionConstant:
		if parseError := yaml.Unmarshal(contents, &manifest); parseError != nil {
			return "", fmt.Errorf(parseManifestTemplateConstant, manifestPath, parseError)
		}
	default:
		if parseError := json.Unmarshal(jsonc.ToJSON(contents), &manifest); parseError != nil {
			return "", fmt.Errorf(parseManifestTemplateConstant, manifestPath, parseError)
		}
	}

	version := strings.TrimSpace(manifest.Version)
	if len(version) == 0 {
		return "", fmt.Errorf(manifestVersionMissingTemplateConstant, manifestPath, ErrManifestVersionMissing)
	}
	return version, nil
}

// ChangelogContainsVersion reports whether the changelog has a heading consisting of exactly the version.
func (reader *DocumentReader) ChangelogContainsVersion(changelogPath string, version string) (bool, error) {
	contents, readError := afero.ReadFile(reader.fileSystem, changelogPath)
	if readError != nil {
		return false, fmt.Errorf(readDocumentTemplateConstant, changelogPath, readError)
	}
	headingPattern := regexp.MustCompile(fmt.Sprintf(changelogHeadingPatternTemplate, regexp.QuoteMeta(version)))
	return headingPattern.Match(contents), nil
}
