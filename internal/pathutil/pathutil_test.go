package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeJoinsRootAndPath(t *testing.T) {
	got, err := Compose("/srv/www", "/static/hello.txt")
	require.Nil(t, err)
	assert.Equal(t, "/srv/www/static/hello.txt", got)
}

func TestComposeRejectsTraversalEscape(t *testing.T) {
	_, err := Compose("/srv/www", "/../../etc/passwd")
	require.NotNil(t, err)
	assert.Equal(t, 404, err.Status)
}

func TestComposeRejectsTraversalStayingWithinLookingPath(t *testing.T) {
	_, err := Compose("/srv/www", "/static/../../secret")
	require.NotNil(t, err)
	assert.Equal(t, 404, err.Status)
}

func TestComposeAllowsDotDotThatStaysInRoot(t *testing.T) {
	got, err := Compose("/srv/www", "/static/../other.txt")
	require.Nil(t, err)
	assert.Equal(t, "/srv/www/other.txt", got)
}

func TestComposeRootItself(t *testing.T) {
	got, err := Compose("/srv/www", "/")
	require.Nil(t, err)
	assert.Equal(t, "/srv/www", got)
}
