package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func houseInput() NewProjectInput {
	return NewProjectInput{
		ID:             "P-001",
		Type:           TypeHouse,
		StartDate:      date(2024, 1, 1),
		EstimatedEnd:   date(2024, 12, 31),
		Address:        "Calle 10 #5-20",
		LotArea:        1000,
		LandPricePerM2: 500000,
		SizeClass:      SizeLarge,
		Stratum:        4,
		RoomsPerUnit:   3,
	}
}

// Scenario: house, 1000 m2 lot at 500,000/m2, large, stratum 4, 3 rooms.
func TestHouseDerivation(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)

	assert.Equal(t, 80.0, p.ConstructionPercent)
	assert.Equal(t, 800.0, p.BuiltArea)
	assert.Equal(t, 200.0, p.UnbuiltArea)
	assert.Equal(t, 130.0, p.MinUnitArea) // 3*30 + 40

	assert.Equal(t, 500000000.0, p.LandCostTotal)
	assert.Equal(t, 2550000.0, p.ConstructionCostPerM2) // mean(2.3M, 2.8M)
	assert.Equal(t, 2040000000.0, p.ConstructionCostTotal)
	assert.Equal(t, 2540000000.0, p.TotalBudget)
	assert.Equal(t, 508000000.0, p.Profit)
	assert.Equal(t, 3810000.0, p.SalePricePerM2) // 1.2 * budget / 800

	// n_opt = floor(3,810,000 / 100,000) = 38, capacity = floor(800/130) = 6.
	assert.Equal(t, 6, p.UnitCount)
	assert.Equal(t, p.BuiltArea*p.SalePricePerM2, p.SalePriceTotal)
	assert.Equal(t, p.SalePriceTotal/6, p.UnitValue)

	assert.Equal(t, []string{"Pool", "Common Room"}, p.SocialAmenities)
	assert.Zero(t, p.TowersCount)
	assert.Zero(t, p.UnitsPerTower)
	assert.Zero(t, p.WarehouseArea)
}

// Scenario: building, same lot/price/stratum, 2 rooms.
func TestBuildingDerivation(t *testing.T) {
	in := houseInput()
	in.Type = TypeBuilding
	in.RoomsPerUnit = 2
	p, err := NewProject(in)
	require.NoError(t, err)

	assert.Equal(t, 70.0, p.MinUnitArea) // 2*20 + 30

	// n_opt = floor(3,810,000 / 160,000) = 23, capped at floor(800/70) = 11.
	assert.Equal(t, 11, p.UnitCount)
	assert.Equal(t, 2, p.TowersCount) // ceil(11/10), evaluated after capping
	assert.Equal(t, 10, p.UnitsPerTower)
}

// Scenario: warehouse lot of 500 m2, 70% usable at 100 m2 per bay.
func TestWarehouseDerivation(t *testing.T) {
	in := houseInput()
	in.Type = TypeOther
	in.LotArea = 500
	in.RoomsPerUnit = 0
	p, err := NewProject(in)
	require.NoError(t, err)

	assert.Equal(t, 350.0, p.WarehouseArea)
	assert.Equal(t, 100.0, p.MinUnitArea)
	assert.Equal(t, 3, p.UnitCount)
	assert.Zero(t, p.TowersCount)

	_, ok := p.MarginalUnitValue()
	assert.False(t, ok)
}

// A lot too small for a single unit caps the count down to zero, below the
// minimum-1 floor, and the unit value guard returns 0 instead of dividing.
func TestZeroCapacityYieldsZeroUnits(t *testing.T) {
	in := houseInput()
	in.LotArea = 100 // built 80 < min unit 130
	p, err := NewProject(in)
	require.NoError(t, err)

	assert.Equal(t, 0, p.UnitCount)
	assert.Equal(t, 0.0, p.UnitValue)
	assert.Greater(t, p.SalePricePerM2, 0.0)
}

func TestAreaPartition(t *testing.T) {
	for _, size := range []SizeClass{SizeLarge, SizeMedium, SizeSmall} {
		in := houseInput()
		in.SizeClass = size
		in.LotArea = 777.77
		p, err := NewProject(in)
		require.NoError(t, err)
		assert.InDelta(t, p.LotArea, p.BuiltArea+p.UnbuiltArea, 1e-9)
	}
}

func TestCapacityIsHardCeiling(t *testing.T) {
	for rooms := 1; rooms <= 5; rooms++ {
		for _, typ := range []ProjectType{TypeHouse, TypeBuilding} {
			in := houseInput()
			in.Type = typ
			in.RoomsPerUnit = rooms
			p, err := NewProject(in)
			require.NoError(t, err)
			capacity := int(math.Floor(p.BuiltArea / p.MinUnitArea))
			assert.LessOrEqual(t, p.UnitCount, capacity)
			if p.BuiltArea >= p.MinUnitArea {
				assert.GreaterOrEqual(t, p.UnitCount, 1)
			}
		}
	}
}

func TestBudgetIdentities(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)
	assert.Equal(t, p.LandCostTotal+p.ConstructionCostTotal, p.TotalBudget)
	assert.Equal(t, 0.20*p.TotalBudget, p.Profit)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)
	before := *p
	p.Recalculate()
	assert.Equal(t, before, *p)
}

func TestConstructionCostTiers(t *testing.T) {
	cases := map[int]float64{
		1: 4050000, // below 3 lands in the top tier
		2: 4050000,
		3: 2050000,
		4: 2550000,
		5: 3200000,
		6: 4050000,
	}
	for stratum, want := range cases {
		in := houseInput()
		in.Stratum = stratum
		p, err := NewProject(in)
		require.NoError(t, err)
		assert.Equal(t, want, p.ConstructionCostPerM2, "stratum %d", stratum)
	}
}

func TestAmenitiesByStratum(t *testing.T) {
	cases := map[int][]string{
		1: {"Green Areas", "Playground"},
		2: {"Green Areas", "Playground"},
		3: {"Playground", "Common Room"},
		4: {"Pool", "Common Room"},
		5: {"Pool", "Sauna", "Gym"},
		6: {"Pool", "Sauna", "Gym"},
	}
	for stratum, want := range cases {
		assert.Equal(t, want, amenitiesForStratum(stratum), "stratum %d", stratum)
	}
}

func TestMarginalUnitValue(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)
	v, ok := p.MarginalUnitValue()
	require.True(t, ok)
	assert.Equal(t, -50000.0*130.0, v)

	in := houseInput()
	in.Type = TypeBuilding
	in.RoomsPerUnit = 2
	b, err := NewProject(in)
	require.NoError(t, err)
	v, ok = b.MarginalUnitValue()
	require.True(t, ok)
	assert.Equal(t, -80000.0*70.0, v)
}

func TestEstimatedDuration(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)
	assert.Equal(t, 365, p.EstimatedDuration()) // 2024 is a leap year
}

func TestApplyEditRecomputes(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)

	newStratum := 5
	newPrice := 600000.0
	require.NoError(t, p.ApplyEdit(EditInput{Stratum: &newStratum, LandPricePerM2: &newPrice}))

	assert.Equal(t, 3200000.0, p.ConstructionCostPerM2)
	assert.Equal(t, 600000000.0, p.LandCostTotal)
	assert.Equal(t, 600000000.0+800*3200000, p.TotalBudget)
	assert.Equal(t, []string{"Pool", "Sauna", "Gym"}, p.SocialAmenities)
}

func TestApplyEditRejectsInvalidWithoutChanges(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)
	before := *p

	badStratum := 9
	goodPrice := 750000.0
	err = p.ApplyEdit(EditInput{Stratum: &badStratum, LandPricePerM2: &goodPrice})
	assert.ErrorIs(t, err, ErrInvalidStratum)
	assert.Equal(t, before, *p)
}

func TestApplyEditLeavesOmittedFieldsUntouched(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)

	rooms := 4
	require.NoError(t, p.ApplyEdit(EditInput{RoomsPerUnit: &rooms}))
	assert.Equal(t, 4, p.RoomsPerUnit)
	assert.Equal(t, 4.0*30+40, p.MinUnitArea)
	assert.Equal(t, 500000.0, p.LandPricePerM2)
	assert.Equal(t, 4, p.Stratum)
}

func TestFinalize(t *testing.T) {
	p, err := NewProject(houseInput())
	require.NoError(t, err)

	err = p.FinalizeAt(date(2023, 12, 1))
	assert.ErrorIs(t, err, ErrEndBeforeStart)
	assert.False(t, p.Finalized)

	require.NoError(t, p.FinalizeAt(date(2025, 2, 10)))
	assert.True(t, p.Finalized)
	require.NotNil(t, p.ActualEnd)
	assert.Equal(t, date(2025, 2, 10), *p.ActualEnd)

	assert.ErrorIs(t, p.FinalizeAt(date(2025, 3, 1)), ErrAlreadyFinalized)
}

func TestNewProjectRejectsInvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*NewProjectInput)
		want   error
	}{
		{"bad type", func(in *NewProjectInput) { in.Type = "castle" }, ErrInvalidType},
		{"bad size", func(in *NewProjectInput) { in.SizeClass = "huge" }, ErrInvalidSizeClass},
		{"stratum low", func(in *NewProjectInput) { in.Stratum = 0 }, ErrInvalidStratum},
		{"stratum high", func(in *NewProjectInput) { in.Stratum = 7 }, ErrInvalidStratum},
		{"zero lot", func(in *NewProjectInput) { in.LotArea = 0 }, ErrInvalidLotArea},
		{"free land", func(in *NewProjectInput) { in.LandPricePerM2 = 0 }, ErrInvalidLandPrice},
		{"no rooms", func(in *NewProjectInput) { in.RoomsPerUnit = 0 }, ErrInvalidRooms},
		{"end before start", func(in *NewProjectInput) { in.EstimatedEnd = date(2023, 1, 1) }, ErrEndBeforeStart},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := houseInput()
			tc.mutate(&in)
			_, err := NewProject(in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseHelpers(t *testing.T) {
	typ, ok := ParseProjectType(" House ")
	require.True(t, ok)
	assert.Equal(t, TypeHouse, typ)
	_, ok = ParseProjectType("farm")
	assert.False(t, ok)

	size, ok := ParseSizeClass("MEDIUM")
	require.True(t, ok)
	assert.Equal(t, SizeMedium, size)
	_, ok = ParseSizeClass("")
	assert.False(t, ok)
}
