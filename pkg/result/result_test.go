package result

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantsAreExclusive(t *testing.T) {
	t.Parallel()

	ok := Success(42)
	v, has := ok.Value()
	assert.True(t, has)
	assert.Equal(t, 42, v)
	assert.Equal(t, KindSuccess, ok.Kind())
	assert.Empty(t, ok.Message())
	assert.False(t, ok.IsFailed())

	auth := AuthenticationFailed[int]()
	_, has = auth.Value()
	assert.False(t, has)
	assert.True(t, auth.IsAuthenticationFailed())
	assert.Empty(t, auth.Message())

	failed := Failed[int]("Conflict")
	_, has = failed.Value()
	assert.False(t, has)
	assert.True(t, failed.IsFailed())
	assert.Equal(t, "Conflict", failed.Message())
}

func TestZeroValueIsFailed(t *testing.T) {
	t.Parallel()

	var r Result[string]
	assert.Equal(t, KindFailed, r.Kind())
	assert.True(t, r.IsFailed())
	assert.False(t, r.IsSuccess())
}

func TestMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Success("7"), Map(Success(7), strconv.Itoa))
	assert.Equal(t, AuthenticationFailed[string](), Map(AuthenticationFailed[int](), strconv.Itoa))
	assert.Equal(t, Failed[string]("Gone"), Map(Failed[int]("Gone"), strconv.Itoa))
	assert.Equal(t, "failed(\"Gone\")", Failed[int]("Gone").String())
	assert.Equal(t, "authentication_failed", KindAuthenticationFailed.String())
}
