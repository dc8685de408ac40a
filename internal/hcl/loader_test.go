package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/restflow/internal/config"
)

// writeSchema drops an HCL snippet into a fresh temp dir and returns the
// file path.
func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load_FullResource(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		resource "user" {
			attributes {
				attribute "name" {
					type        = string
					required_on = ["create", "update"]

					callback "create" {
						handler   = "OnCreateName"
						run_first = true
					}
				}

				attribute "profile" {
					attribute "age" {
						type = number
					}
				}
			}

			relationships {
				relationship "group" {
					type = string
				}
			}

			identifier {
				required_on = ["fetch", "update", "delete"]

				callback "create" {
					handler = "OnCreateIdent"
				}
			}
		}
	`)

	model, err := NewLoader().Load(context.Background(), path)

	require.NoError(t, err)
	res, ok := model.Resources["user"]
	require.True(t, ok, "the user resource should be loaded")

	name := res.Attributes.Child("name")
	require.NotNil(t, name)
	assert.Equal(t, cty.String, name.Type)
	assert.Equal(t, []string{"create", "update"}, name.RequiredOn)
	require.Contains(t, name.Callbacks, config.OperationCreate)
	binding := name.Callbacks[config.OperationCreate]
	assert.Equal(t, "OnCreateName", binding.Handler)
	assert.True(t, binding.RunFirst)

	profile := res.Attributes.Child("profile")
	require.NotNil(t, profile)
	assert.Equal(t, cty.NilType, profile.Type, "a type-less block is a pure container")
	age := profile.Child("age")
	require.NotNil(t, age)
	assert.Equal(t, cty.Number, age.Type)
	assert.Equal(t, []string{"profile", "age"}, age.Path)

	group := res.Relationships.Child("group")
	require.NotNil(t, group)
	assert.Equal(t, cty.String, group.Type)

	assert.Equal(t, cty.String, res.Identifier.Type, "identifier defaults to string")
	assert.Equal(t, []string{"fetch", "update", "delete"}, res.Identifier.RequiredOn)
	require.Contains(t, res.Identifier.Callbacks, config.OperationCreate)
}

func TestLoader_Load_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.hcl"),
		[]byte("resource \"user\" {\n\tattributes {}\n}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "group.hcl"),
		[]byte("resource \"group\" {\n\tattributes {}\n}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte(`not hcl`), 0644))

	model, err := NewLoader().Load(context.Background(), dir)

	require.NoError(t, err)
	assert.Len(t, model.Resources, 2, "only .hcl files should be loaded")
	assert.Contains(t, model.Resources, "user")
	assert.Contains(t, model.Resources, "group")
}

func TestLoader_Load_SyntaxError(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `resource "user" {`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoader_Load_UnknownOperationInCallback(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		resource "user" {
			attributes {
				attribute "name" {
					callback "destroy" {
						handler = "OnDestroyName"
					}
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestLoader_Load_UnknownOperationInRequiredOn(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		resource "user" {
			attributes {
				attribute "name" {
					required_on = ["destroy"]
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required_on")
}

func TestLoader_Load_DuplicateCallbackOperation(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		resource "user" {
			attributes {
				attribute "name" {
					callback "create" { handler = "OnA" }
					callback "create" { handler = "OnB" }
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate callback")
}

func TestLoader_Load_InvalidTypeExpression(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
		resource "user" {
			attributes {
				attribute "name" {
					type = stringy
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestLoader_Load_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to access")
}
