package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("Front View.JPG")
	assert.True(t, strings.HasPrefix(key, photoPrefix))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, objectKey("Front View.JPG"))

	assert.Len(t, strings.TrimPrefix(objectKey("noext"), photoPrefix), 36)
}
