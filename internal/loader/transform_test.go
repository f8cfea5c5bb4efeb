package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dapperline/deckhand/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsDocument = `
openapi: 3.0.3
info:
  title: Pet Directory
  description: A small directory of pets.
  version: 0.3.0
servers:
  - url: https://api.example.com/v1
tags:
  - name: pets
    description: Pet operations
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getPet
      summary: Fetch one pet
      tags: [pets]
      parameters:
        - name: verbose
          in: query
          schema:
            type: boolean
            default: false
      responses:
        "200":
          description: the pet
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
        "404":
          description: not found
    delete:
      summary: Remove a pet
      security:
        - bearer: []
      responses:
        "204":
          description: removed
  /pets:
    post:
      operationId: createPet
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
            example:
              name: Rex
      responses:
        "201":
          description: created
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
          example: Rex
        age:
          type: integer
        tags:
          type: array
          items:
            type: string
  securitySchemes:
    bearer:
      type: http
      scheme: bearer
`

func loadPets(t *testing.T) *model.Spec {
	t.Helper()
	result, err := Load([]byte(petsDocument))
	require.NoError(t, err)
	spec, err := Transform(result)
	require.NoError(t, err)
	return spec
}

func TestLoadRejectsNonV3(t *testing.T) {
	doc := `
swagger: "2.0"
info:
  title: Old
  version: "1.0"
paths: {}
`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported OpenAPI version")
}

func TestLoadRejectsMissingPaths(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: Empty
  version: "1.0"
`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no paths table")
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("{{{ not a document"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petsDocument), 0o644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", result.Version)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("nope/missing.yaml")
	require.Error(t, err)
}

func TestTransformMetadata(t *testing.T) {
	spec := loadPets(t)

	assert.Equal(t, "Pet Directory", spec.Info.Title)
	assert.Equal(t, "0.3.0", spec.Info.Version)
	require.Len(t, spec.Servers, 1)
	assert.Equal(t, "https://api.example.com/v1", spec.Servers[0].URL)
	require.Len(t, spec.Tags, 1)
	assert.Equal(t, "pets", spec.Tags[0].Name)
}

func TestTransformOperations(t *testing.T) {
	spec := loadPets(t)
	require.Len(t, spec.Operations, 3)

	byID := map[string]model.Operation{}
	for _, op := range spec.Operations {
		byID[op.ID] = op
	}

	t.Run("path-level parameters precede operation-level ones", func(t *testing.T) {
		get := byID["getPet"]
		require.Len(t, get.Parameters, 2)
		assert.Equal(t, "petId", get.Parameters[0].Name)
		assert.Equal(t, model.LocationPath, get.Parameters[0].In)
		assert.True(t, get.Parameters[0].Required)
		assert.Equal(t, "verbose", get.Parameters[1].Name)
		assert.Equal(t, model.LocationQuery, get.Parameters[1].In)
	})

	t.Run("parameter schema values decode to plain Go data", func(t *testing.T) {
		get := byID["getPet"]
		verbose := get.Parameters[1].Schema
		require.NotNil(t, verbose)
		assert.Equal(t, model.TypeBoolean, verbose.Type)
		assert.Equal(t, false, verbose.Default)
	})

	t.Run("responses keep document order", func(t *testing.T) {
		get := byID["getPet"]
		require.Len(t, get.Responses, 2)
		assert.Equal(t, "200", get.Responses[0].StatusCode)
		assert.Equal(t, "404", get.Responses[1].StatusCode)
	})

	t.Run("response schema references stay unresolved", func(t *testing.T) {
		get := byID["getPet"]
		content := get.Responses[0].Content
		require.Len(t, content, 1)
		require.NotNil(t, content[0].Schema)
		assert.Equal(t, "#/components/schemas/Pet", content[0].Schema.Ref)
	})

	t.Run("request body carries media example", func(t *testing.T) {
		create := byID["createPet"]
		require.NotNil(t, create.RequestBody)
		assert.True(t, create.RequestBody.Required)
		require.Len(t, create.RequestBody.Content, 1)
		media := create.RequestBody.Content[0]
		assert.Equal(t, "application/json", media.MediaType)
		assert.Equal(t, map[string]any{"name": "Rex"}, media.Example)
	})

	t.Run("operation security requirements survive", func(t *testing.T) {
		var del model.Operation
		for _, op := range spec.Operations {
			if op.Method == model.MethodDelete {
				del = op
			}
		}
		require.Len(t, del.Security, 1)
		assert.Equal(t, "bearer", del.Security[0].Name)
	})

	t.Run("missing operationId stays empty for the normalizer", func(t *testing.T) {
		var del model.Operation
		for _, op := range spec.Operations {
			if op.Method == model.MethodDelete {
				del = op
			}
		}
		assert.Empty(t, del.ID)
		assert.Equal(t, "/pets/{petId}", del.Path)
	})
}

func TestTransformSchemas(t *testing.T) {
	spec := loadPets(t)

	table := spec.SchemaTable()
	pet, ok := table["Pet"]
	require.True(t, ok)

	assert.Equal(t, model.TypeObject, pet.Type)
	assert.Equal(t, []string{"name"}, pet.Required)
	require.Len(t, pet.Properties, 3)

	assert.Equal(t, "name", pet.Properties[0].Name)
	assert.Equal(t, "Rex", pet.Properties[0].Schema.Example)
	assert.Equal(t, "age", pet.Properties[1].Name)
	assert.Equal(t, model.TypeInteger, pet.Properties[1].Schema.Type)

	tags := pet.Properties[2].Schema
	require.NotNil(t, tags.Items)
	assert.Equal(t, model.TypeString, tags.Items.Type)
}

func TestTransformSecuritySchemes(t *testing.T) {
	spec := loadPets(t)

	require.Len(t, spec.Security, 1)
	assert.Equal(t, "bearer", spec.Security[0].Name)
	assert.Equal(t, "http", spec.Security[0].Type)
	assert.Equal(t, "bearer", spec.Security[0].Scheme)
}
