package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_PermissionsClaim(t *testing.T) {
	tok, err := NewToken(map[string]interface{}{
		"sub":         "user-1",
		"permissions": []interface{}{"create:orders", "read:orders"},
	})

	require.NoError(t, err)
	assert.True(t, tok.HasPermission("create:orders"))
	assert.False(t, tok.HasPermission("delete:orders"))
}

func TestNewToken_FallsBackToSingularPermission(t *testing.T) {
	tok, err := NewToken(map[string]interface{}{
		"permissions": []interface{}{},
		"permission":  []interface{}{"create:orders"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"create:orders"}, tok.Permissions())
}

func TestNewToken_BareStringPermissionClaimFails(t *testing.T) {
	_, err := NewToken(map[string]interface{}{
		"permissions": []interface{}{},
		"permission":  "create:orders",
	})

	require.Error(t, err)
	assert.Equal(t, KindMalformedToken, KindOf(err))
}

func TestNewToken_NonStringListPermissionsClaimFails(t *testing.T) {
	_, err := NewToken(map[string]interface{}{
		"permissions": []interface{}{"create:orders", 42},
	})

	require.Error(t, err)
	assert.Equal(t, KindMalformedToken, KindOf(err))
}

func TestNewToken_MissingBothClaims_Fails(t *testing.T) {
	_, err := NewToken(map[string]interface{}{"sub": "user-1"})

	require.Error(t, err)
	assert.Equal(t, KindTokenDecodingFailure, KindOf(err))
}

func TestRequiredPermission_LiteralColon(t *testing.T) {
	assert.Equal(t, "create:orders", RequiredPermission("create", "orders"))
}
