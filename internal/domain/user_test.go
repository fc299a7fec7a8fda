package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_MarshalJSONIncludesExtra(t *testing.T) {
	u := NewUser("a@x.io", "secret-hash", "12345678")
	u.Extra = map[string]interface{}{"skin": "red", "level": "ignored"}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "red", doc["skin"])
	assert.Equal(t, float64(DefaultLevel), doc["level"])
	assert.NotContains(t, doc, "passwordHash")
	assert.NotContains(t, string(b), "secret-hash")
}

func TestUser_SetExtraSkipsTypedFields(t *testing.T) {
	var u User
	u.SetExtra(map[string]interface{}{"email": "a@x.io", "passwordHash": "h", "skin": "red"})
	assert.Equal(t, map[string]interface{}{"skin": "red"}, u.Extra)

	u.SetExtra(map[string]interface{}{"xp": float64(1)})
	assert.Nil(t, u.Extra)
}
