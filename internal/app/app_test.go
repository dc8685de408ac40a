package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/internal/testutil"
)

const userSchema = `
	resource "user" {
		attributes {
			attribute "name" {
				type        = string
				required_on = ["create"]

				callback "create" {
					handler   = "OnCreateName"
					run_first = true
				}
			}
		}

		identifier {
			callback "create" {
				handler = "OnIdent"
			}
		}
	}
`

func testModule() *testutil.SimpleModule {
	return &testutil.SimpleModule{
		Callbacks: map[string]registry.CallbackFunc{
			"OnCreateName": func(_ context.Context, call *registry.Call) (cty.Value, error) {
				return call.State.Value, nil
			},
			"OnIdent": func(_ context.Context, call *registry.Call) (cty.Value, error) {
				return cty.StringVal(call.ResourceID), nil
			},
		},
	}
}

func TestNewApp_LoadsSchemasAndValidates(t *testing.T) {
	t.Parallel()

	result := testutil.SetupAppTest(t, map[string]string{
		"user.hcl": userSchema,
	}, testModule())

	require.NoError(t, result.Err)
	require.NotNil(t, result.App)

	res, ok := result.App.Registry().Resource("user")
	require.True(t, ok, "the user resource should be registered")
	assert.NotNil(t, res.Attributes.Child("name"))
	assert.Contains(t, result.LogOutput, "Registry validation passed")
}

func TestNewApp_UnregisteredHandlerFailsStartup(t *testing.T) {
	t.Parallel()

	// The schema binds OnCreateName, but no module registers it.
	result := testutil.SetupAppTest(t, map[string]string{
		"user.hcl": userSchema,
	}, &testutil.SimpleModule{})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "registry validation failed")
	assert.Contains(t, result.Err.Error(), "OnCreateName")
}

func TestNewApp_MalformedSchemaFailsStartup(t *testing.T) {
	t.Parallel()

	result := testutil.SetupAppTest(t, map[string]string{
		"broken.hcl": `resource "user" {`,
	}, testModule())

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse")
}

func TestNewApp_DanglingRunAfterFailsStartup(t *testing.T) {
	t.Parallel()

	schema := `
		resource "user" {
			attributes {
				attribute "name" {
					callback "create" {
						handler   = "OnCreateName"
						run_after = ["OnMissing"]
					}
				}
			}
		}
	`
	result := testutil.SetupAppTest(t, map[string]string{
		"user.hcl": schema,
	}, testModule())

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "run_after")
}
