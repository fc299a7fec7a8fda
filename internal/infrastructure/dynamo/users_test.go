package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bomberman-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeUser_KeepsExtraAttributes(t *testing.T) {
	u := domain.NewUser("a@x.io", "hash", "12345678")
	u.Extra = map[string]interface{}{"skin": "red", "settings": map[string]interface{}{"volume": 0.5}}

	item, err := encodeUser(u)
	require.NoError(t, err)
	assert.Contains(t, item, "skin")
	assert.Contains(t, item, "passwordHash")

	got, err := decodeUser(item)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "red", got.Extra["skin"])
	assert.Equal(t, map[string]interface{}{"volume": 0.5}, got.Extra["settings"])
	assert.NotContains(t, got.Extra, "passwordHash")
	assert.NotContains(t, got.Extra, "email")
}

func TestDecodeUser_ReadsPatchedValues(t *testing.T) {
	item, err := encodeUser(domain.NewUser("a@x.io", "hash", "12345678"))
	require.NoError(t, err)

	// Values in the shape the account service stores them.
	ue, err := buildUpdateExpr(map[string]interface{}{
		"level":           int64(7),
		"deathmatchStats": domain.DeathmatchStats{HighestScore: 10, EnemiesKilled: map[string]int{"balloon": 2}},
	})
	require.NoError(t, err)
	for name, field := range ue.Names {
		item[field] = ue.Values[":v"+name[2:]]
	}

	got, err := decodeUser(item)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Level)
	assert.Equal(t, 2, got.DeathmatchStats.EnemiesKilled["balloon"])
	assert.Nil(t, got.Extra)
}

func TestDecodeUser_MistypedAttributeIsAnError(t *testing.T) {
	item, err := encodeUser(domain.NewUser("a@x.io", "hash", "12345678"))
	require.NoError(t, err)
	item["level"], err = attributevalue.Marshal("ten")
	require.NoError(t, err)

	_, err = decodeUser(item)
	assert.Error(t, err)
	_, isString := item["level"].(*types.AttributeValueMemberS)
	assert.True(t, isString)
}
