package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

func TestApplyLinkOps(t *testing.T) {
	res, added, err := container.ApplyLinkOps([]string{"a", "b"}, []container.LinkOp{
		{Kind: container.LinkAdd, IDs: []string{"c", "a"}},
		{Kind: container.LinkRemove, IDs: []string{"b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, res)
	assert.Equal(t, []string{"c"}, added)

	res, added, err = container.ApplyLinkOps([]string{"a"}, []container.LinkOp{
		{Kind: container.LinkReplace, IDs: []string{"x", "x", "y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, res)
	assert.Equal(t, []string{"x", "y"}, added)

	_, _, err = container.ApplyLinkOps(nil, []container.LinkOp{{Kind: "merge"}})
	assert.Error(t, err)
}

func TestFieldEditable(t *testing.T) {
	assert.True(t, container.FieldEditable(container.FieldProduct, entity.StateDraft))
	assert.False(t, container.FieldEditable(container.FieldProduct, entity.StateBooking))
	assert.True(t, container.FieldEditable(container.FieldETA, entity.StateFreight))
	assert.False(t, container.FieldEditable(container.FieldETM, entity.StateDraft))
	assert.True(t, container.FieldEditable(container.FieldRDV, entity.StateApproaching))
	assert.True(t, container.FieldEditable(container.FieldName, entity.StateUnpacking))
	assert.False(t, container.FieldEditable(container.FieldName, entity.StateDelivered))
}
