package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi-validator/schema_validation"
)

type Result struct {
	Document *libopenapi.DocumentModel[v3.Document]
	Version  string
	Warnings []string
	RawData  []byte
}

// LoadFile reads and parses an OpenAPI document from disk.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return loadWithConfig(data, config)
}

// Load parses an OpenAPI document from raw bytes.
func Load(data []byte) (*Result, error) {
	return loadWithConfig(data, nil)
}

// Fetch retrieves an OpenAPI document over HTTP and parses it. Document
// loading is the single external I/O of the compile pipeline; everything
// downstream is pure.
func Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Result, error) {
	client := resty.New().SetTimeout(timeout)

	resp, err := client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching spec from %s: %w", rawURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching spec from %s: unexpected status %s", rawURL, resp.Status())
	}

	return loadWithConfig(resp.Body(), nil)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration) (*Result, error) {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %s (only 3.x supported)", version)
	}

	model, err := doc.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI model: %w", err)
	}

	if model.Model.Paths == nil || model.Model.Paths.PathItems == nil {
		return nil, fmt.Errorf("document has no paths table")
	}

	result := &Result{
		Document: model,
		Version:  version,
		RawData:  data,
	}

	// Document-level validation is advisory; plenty of real-world specs carry
	// minor violations that do not affect the compiled catalog.
	if valid, validationErrs := schema_validation.ValidateOpenAPIDocument(doc); !valid {
		for _, ve := range validationErrs {
			result.Warnings = append(result.Warnings, ve.Message)
		}
	}

	return result, nil
}
