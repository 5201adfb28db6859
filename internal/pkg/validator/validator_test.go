package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	PubKey string `validate:"required,hexkey"`
	Status string `validate:"placestatus"`
	Type   string `validate:"placetype"`
}

func TestValidate_CustomRules(t *testing.T) {
	key := strings.Repeat("ab", 32)

	assert.NoError(t, Validate(&sample{PubKey: key}))
	assert.NoError(t, Validate(&sample{PubKey: key, Status: "OPERATIONAL", Type: "museum"}))
	assert.Error(t, Validate(&sample{PubKey: key, Status: "open"}))
	assert.Error(t, Validate(&sample{PubKey: key, Type: "spaceport"}))
	assert.Error(t, Validate(&sample{PubKey: "abc123"}))
	assert.Error(t, Validate(&sample{PubKey: strings.Repeat("zz", 32)}))
}
