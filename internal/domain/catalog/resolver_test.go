package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attritiongame/attrition-core/internal/domain/catalog"
	"github.com/attritiongame/attrition-core/internal/domain/shared"
)

func TestResolver_GetSpec(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act
	spec, err := resolver.GetSpec(catalog.ConstructionYards)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, catalog.ConstructionYards, spec.Key)
	assert.Equal(t, catalog.KindStructure, spec.Kind)
	assert.Equal(t, int64(250), spec.BaseCost)
	assert.Equal(t, 500.0, spec.ConstructionRate)
}

func TestResolver_GetSpec_UnknownKey(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act
	_, err := resolver.GetSpec(catalog.Key("orbital_casino"))

	// Assert
	require.Error(t, err)
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolver_CostForLevel_GrowthCurve(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act - construction yards grow by 1.7x per level off a 250 base
	level1, err := resolver.CostForLevel(catalog.ConstructionYards, 1)
	require.NoError(t, err)
	level2, err := resolver.CostForLevel(catalog.ConstructionYards, 2)
	require.NoError(t, err)
	level3, err := resolver.CostForLevel(catalog.ConstructionYards, 3)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(250), level1)
	assert.Equal(t, int64(425), level2)
	assert.Equal(t, int64(723), level3) // round(250 * 1.7^2)
}

func TestResolver_CostForLevel_UnitsAreFlat(t *testing.T) {
	// Arrange - unit "levels" are fleet counts, so the curve must not grow
	resolver := catalog.NewResolver()

	// Act
	first, err := resolver.CostForLevel(catalog.Fighters, 1)
	require.NoError(t, err)
	tenth, err := resolver.CostForLevel(catalog.Fighters, 10)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(100), first)
	assert.Equal(t, first, tenth)
}

func TestResolver_CostForLevel_RejectsLevelBelowOne(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act
	_, err := resolver.CostForLevel(catalog.SolarPlants, 0)

	// Assert
	require.Error(t, err)
	var invalid *shared.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestResolver_Technologies_ByFamily(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act
	construction := resolver.Technologies(catalog.RateConstruction)

	// Assert - exactly one tech boosts construction throughput
	require.Len(t, construction, 1)
	assert.Equal(t, catalog.ConstructionTech, construction[0].Key)
	assert.Equal(t, 0.05, construction[0].BonusPerLevel)
}

func TestResolver_Keys_Deterministic(t *testing.T) {
	// Arrange
	resolver := catalog.NewResolver()

	// Act
	first := resolver.Keys()
	second := resolver.Keys()

	// Assert
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestParseKey(t *testing.T) {
	// Act
	key, err := catalog.ParseKey("solar_plants")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, catalog.SolarPlants, key)
}

func TestParseKey_Unknown(t *testing.T) {
	// Act
	_, err := catalog.ParseKey("dyson_sphere")

	// Assert
	require.Error(t, err)
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
