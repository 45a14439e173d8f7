// Package docs builds the OpenAPI 3 description of the REST API and serves
// it as JSON and YAML.
package docs

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
)

// Document is the subset of OpenAPI 3.0 the API needs
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Tags       []Tag               `json:"tags" yaml:"tags"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations
type PathItem map[string]Operation

type Operation struct {
	Tags        []string            `json:"tags" yaml:"tags"`
	Summary     string              `json:"summary" yaml:"summary"`
	OperationID string              `json:"operationId" yaml:"operationId"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Schema      Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Ref        string            `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string            `json:"format,omitempty" yaml:"format,omitempty"`
	Items      *Schema           `json:"items,omitempty" yaml:"items,omitempty"`
	Properties map[string]Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type Components struct {
	Schemas map[string]Schema `json:"schemas" yaml:"schemas"`
}

var (
	str     = Schema{Type: "string"}
	text    = map[string]MediaType{"text/plain": {Schema: str}}
	userRef = map[string]MediaType{"application/json": {Schema: Schema{Ref: "#/components/schemas/User"}}}

	filename = Parameter{Name: "filename", In: "path", Description: "Name of the file", Required: true, Schema: str}
	userID   = Parameter{Name: "id", In: "path", Description: "User id", Required: true, Schema: Schema{Type: "integer", Format: "int32"}}
)

func textResponse(description string) Response {
	return Response{Description: description, Content: text}
}

func fileOp(id, summary string, responses map[string]Response) Operation {
	return Operation{
		Tags:        []string{"File"},
		Summary:     summary,
		OperationID: id,
		Parameters:  []Parameter{filename},
		Responses:   responses,
	}
}

func userOp(id, summary string, params []Parameter, body bool, responses map[string]Response) Operation {
	op := Operation{
		Tags:        []string{"User"},
		Summary:     summary,
		OperationID: id,
		Parameters:  params,
		Responses:   responses,
	}
	if body {
		op.RequestBody = &RequestBody{Required: true, Content: userRef}
	}
	return op
}

// Build returns the API description
func Build(version string) Document {
	invalid := textResponse("Invalid filename")
	missing := textResponse("File not found")

	return Document{
		OpenAPI: "3.0.3",
		Info:    Info{Title: "resthub", Version: version},
		Tags: []Tag{
			{Name: "File", Description: "File operations under the configured base directory"},
			{Name: "User", Description: "User CRUD operations"},
		},
		Paths: map[string]PathItem{
			"/api/file": {
				"get": {
					Tags:        []string{"File"},
					Summary:     "List all files in the folder",
					OperationID: "listFiles",
					Parameters: []Parameter{{
						Name: "pattern", In: "query", Description: "Glob filter on file names", Schema: str,
					}},
					Responses: map[string]Response{
						"200": {Description: "File names in lexicographic order", Content: map[string]MediaType{
							"application/json": {Schema: Schema{Type: "array", Items: &str}},
						}},
						"400": {Description: "Invalid pattern"},
						"500": {Description: "Error listing files"},
					},
				},
			},
			"/api/file/{filename}": {
				"get": fileOp("getFileContent", "Get file content", map[string]Response{
					"200": textResponse("File content"),
					"400": invalid,
					"404": missing,
					"500": textResponse("Error reading file"),
				}),
				"post": fileOp("createFile", "Create a new file with default content", map[string]Response{
					"200": textResponse("File created"),
					"400": textResponse("File already exists or invalid filename"),
					"500": textResponse("Error creating file"),
				}),
				"put": func() Operation {
					op := fileOp("updateFileContent", "Update file content", map[string]Response{
						"200": textResponse("File updated"),
						"400": invalid,
						"404": missing,
						"413": textResponse("File too large"),
						"500": textResponse("Error writing file"),
					})
					op.RequestBody = &RequestBody{Required: true, Content: text}
					return op
				}(),
				"delete": fileOp("deleteFile", "Delete a file", map[string]Response{
					"200": textResponse("File deleted"),
					"400": invalid,
					"404": missing,
					"500": textResponse("Error deleting file"),
				}),
			},
			"/api/file/{filename}/meta": {
				"get": fileOp("getFileInfo", "Get file size, modification time and MIME type", map[string]Response{
					"200": {Description: "File metadata", Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/FileInfo"}},
					}},
					"400": invalid,
					"404": missing,
				}),
			},
			"/api/users": {
				"get": userOp("getAllUsers", "Get all users", nil, false, map[string]Response{
					"200": {Description: "All users", Content: map[string]MediaType{
						"application/json": {Schema: Schema{Type: "array", Items: &Schema{Ref: "#/components/schemas/User"}}},
					}},
				}),
				"post": userOp("createUser", "Create a new user", nil, true, map[string]Response{
					"200": {Description: "Created user", Content: userRef},
					"400": {Description: "Invalid request body"},
				}),
			},
			"/api/users/{id}": {
				"get": userOp("getUserById", "Get user by ID", []Parameter{userID}, false, map[string]Response{
					"200": {Description: "User", Content: userRef},
					"400": {Description: "Invalid user id"},
					"404": {Description: "User not found"},
				}),
				"put": userOp("updateUser", "Update an existing user", []Parameter{userID}, true, map[string]Response{
					"200": {Description: "Updated user", Content: userRef},
					"400": {Description: "Invalid user id or body"},
					"404": {Description: "User not found"},
				}),
				"delete": userOp("deleteUser", "Delete a user", []Parameter{userID}, false, map[string]Response{
					"200": {Description: "User deleted"},
					"400": {Description: "Invalid user id"},
					"404": {Description: "User not found"},
				}),
			},
		},
		Components: Components{Schemas: map[string]Schema{
			"User": {Type: "object", Properties: map[string]Schema{
				"id":    {Type: "integer", Format: "int32"},
				"name":  str,
				"email": str,
			}},
			"FileInfo": {Type: "object", Properties: map[string]Schema{
				"name":      str,
				"size":      {Type: "integer", Format: "int64"},
				"modified":  {Type: "string", Format: "date-time"},
				"mime_type": str,
			}},
		}},
	}
}

// Handler serves one Document in both encodings
type Handler struct {
	doc Document

	once    sync.Once
	yamlDoc []byte
	yamlErr error
}

// NewHandler creates a handler for the description of version
func NewHandler(version string) *Handler {
	return &Handler{doc: Build(version)}
}

// Register mounts /api-docs and /api-docs.yaml
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api-docs", h.JSON)
	r.GET("/api-docs.yaml", h.YAML)
}

// JSON serves the document as JSON
func (h *Handler) JSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc)
}

// YAML serves the document as YAML
func (h *Handler) YAML(c *gin.Context) {
	h.once.Do(func() {
		h.yamlDoc, h.yamlErr = yaml.Marshal(h.doc)
	})
	if h.yamlErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.yamlErr.Error()})
		return
	}
	c.Data(http.StatusOK, "application/yaml", h.yamlDoc)
}
