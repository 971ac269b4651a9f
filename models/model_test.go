package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/nutrition"
)

func TestNutrientSnapshotStorage(t *testing.T) {
	entry := &FoodEntry{}

	snap, err := entry.NutrientSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap, "no snapshot stored")

	v := 165.0
	require.NoError(t, entry.SetNutrientSnapshot(&nutrition.Snapshot{
		Nutrients: []nutrition.NutrientValue{
			{ID: nutrition.NutrientIDEnergy, Name: "Energy", Unit: "kcal", Value: &v},
		},
	}))
	assert.NotEmpty(t, entry.Snapshot)

	snap, err = entry.NutrientSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Nil(t, snap.ScaledAt)
	got := nutrition.SnapshotValue(snap, nutrition.NutrientIDEnergy)
	require.NotNil(t, got)
	assert.Equal(t, 165.0, *got)

	require.NoError(t, entry.SetNutrientSnapshot(nil))
	assert.Empty(t, entry.Snapshot)
}

func TestNutrientSnapshotCorruptJSON(t *testing.T) {
	entry := &FoodEntry{Snapshot: "{not json"}
	_, err := entry.NutrientSnapshot()
	assert.Error(t, err)
}
