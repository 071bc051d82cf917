package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpan_AppliesAttributes(t *testing.T) {
	_, span := StartSpan(context.Background(), "search.companies", SpanAttributes{
		Operation: "search",
		OwnerID:   "user-1",
		SearchID:  "search-abc",
	})
	defer span.End()

	require.NotNil(t, span.inner)
	assert.Equal(t, "user-1", span.inner.Tags["owner_id"])
	assert.Equal(t, "search-abc", span.inner.Tags["search_id"])
	assert.Equal(t, "search", span.inner.Data["operation"])
}

func TestStartSpan_EmptyAttributesSetNothing(t *testing.T) {
	_, span := StartSpan(context.Background(), "search.filter_options", SpanAttributes{
		Operation: "filter_options",
	})
	defer span.End()

	require.NotNil(t, span.inner)
	_, hasOwner := span.inner.Tags["owner_id"]
	_, hasSearch := span.inner.Tags["search_id"]
	assert.False(t, hasOwner)
	assert.False(t, hasSearch)
}
