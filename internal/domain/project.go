package domain

import (
	"math"
	"time"
)

// ProjectType is the closed set of project kinds.
type ProjectType string

const (
	TypeHouse    ProjectType = "house"
	TypeBuilding ProjectType = "building"
	TypeOther    ProjectType = "other"
)

// SizeClass drives the fixed construction percentage of the lot.
type SizeClass string

const (
	SizeLarge  SizeClass = "large"
	SizeMedium SizeClass = "medium"
	SizeSmall  SizeClass = "small"
)

// Financial model constants. All monetary values are canonical COP.
const (
	profitShare = 0.20
	saleMarkup  = 1.20

	// Market-saturation penalty per extra unit.
	betaHouse    = 50000.0
	betaBuilding = 80000.0

	towerCapacity = 10

	warehouseLotShare    = 0.70
	warehouseMinUnitArea = 100.0
)

// Project is the central entity. Raw inputs are set at construction or
// through ApplyEdit; every derived field is recomputed as a unit by
// Recalculate and must never be patched individually.
type Project struct {
	ID             string      `json:"id"`
	Type           ProjectType `json:"type"`
	StartDate      time.Time   `json:"start_date"`
	EstimatedEnd   time.Time   `json:"estimated_end_date"`
	Address        string      `json:"address"`
	LotArea        float64     `json:"lot_area"`
	LandPricePerM2 float64     `json:"land_price_per_m2"`
	SizeClass      SizeClass   `json:"size_class"`
	Stratum        int         `json:"stratum"`
	RoomsPerUnit   int         `json:"rooms_per_unit"`
	Finalized      bool        `json:"finalized"`
	ActualEnd      *time.Time  `json:"actual_end_date,omitempty"`

	// Derived fields.
	SocialAmenities       []string `json:"social_amenities"`
	ConstructionPercent   float64  `json:"construction_percent"`
	BuiltArea             float64  `json:"built_area"`
	UnbuiltArea           float64  `json:"unbuilt_area"`
	MinUnitArea           float64  `json:"min_unit_area"`
	WarehouseArea         float64  `json:"warehouse_area,omitempty"`
	UnitCount             int      `json:"unit_count"`
	TowersCount           int      `json:"towers_count,omitempty"`
	UnitsPerTower         int      `json:"units_per_tower,omitempty"`
	LandCostTotal         float64  `json:"land_cost_total"`
	ConstructionCostPerM2 float64  `json:"construction_cost_per_m2"`
	ConstructionCostTotal float64  `json:"construction_cost_total"`
	TotalBudget           float64  `json:"total_budget"`
	Profit                float64  `json:"profit"`
	SalePricePerM2        float64  `json:"sale_price_per_m2"`
	SalePriceTotal        float64  `json:"sale_price_total"`
	UnitValue             float64  `json:"unit_value"`
}

// NewProjectInput carries the validated raw inputs for a new project.
type NewProjectInput struct {
	ID             string
	Type           ProjectType
	StartDate      time.Time
	EstimatedEnd   time.Time
	Address        string
	LotArea        float64
	LandPricePerM2 float64
	SizeClass      SizeClass
	Stratum        int
	RoomsPerUnit   int
}

// NewProject builds a project and immediately derives every computed field.
// Inputs are expected to come through boundary validation; the checks here
// fail defensively instead of deriving from out-of-range values.
func NewProject(in NewProjectInput) (*Project, error) {
	switch in.Type {
	case TypeHouse, TypeBuilding, TypeOther:
	default:
		return nil, ErrInvalidType
	}
	switch in.SizeClass {
	case SizeLarge, SizeMedium, SizeSmall:
	default:
		return nil, ErrInvalidSizeClass
	}
	if in.Stratum < 1 || in.Stratum > 6 {
		return nil, ErrInvalidStratum
	}
	if in.LotArea <= 0 {
		return nil, ErrInvalidLotArea
	}
	if in.LandPricePerM2 <= 0 {
		return nil, ErrInvalidLandPrice
	}
	if in.Type != TypeOther && in.RoomsPerUnit < 1 {
		return nil, ErrInvalidRooms
	}
	if in.EstimatedEnd.Before(in.StartDate) {
		return nil, ErrEndBeforeStart
	}

	p := &Project{
		ID:             in.ID,
		Type:           in.Type,
		StartDate:      in.StartDate,
		EstimatedEnd:   in.EstimatedEnd,
		Address:        in.Address,
		LotArea:        in.LotArea,
		LandPricePerM2: in.LandPricePerM2,
		SizeClass:      in.SizeClass,
		Stratum:        in.Stratum,
		RoomsPerUnit:   in.RoomsPerUnit,
	}
	p.Recalculate()
	return p, nil
}

// amenitiesForStratum is a pure lookup keyed by socioeconomic tier.
func amenitiesForStratum(stratum int) []string {
	switch {
	case stratum >= 5:
		return []string{"Pool", "Sauna", "Gym"}
	case stratum == 4:
		return []string{"Pool", "Common Room"}
	case stratum == 3:
		return []string{"Playground", "Common Room"}
	default:
		return []string{"Green Areas", "Playground"}
	}
}

func constructionPercent(size SizeClass) float64 {
	switch size {
	case SizeLarge:
		return 80.0
	case SizeMedium:
		return 60.0
	case SizeSmall:
		return 45.0
	}
	return 0
}

// costPerM2ByStratum returns the tiered construction cost midpoint.
// Strata below 3 land in the top tier, matching the pricing table.
func costPerM2ByStratum(stratum int) float64 {
	switch stratum {
	case 3:
		return (1800000 + 2300000) / 2.0
	case 4:
		return (2300000 + 2800000) / 2.0
	case 5:
		return (2800000 + 3600000) / 2.0
	}
	return (3600000 + 4500000) / 2.0
}

// Recalculate derives every computed field from the raw inputs, in
// dependency order. It is idempotent: on unchanged inputs the derived
// fields come out bit-identical.
func (p *Project) Recalculate() {
	p.SocialAmenities = amenitiesForStratum(p.Stratum)
	p.ConstructionPercent = constructionPercent(p.SizeClass)
	p.BuiltArea = p.LotArea * (p.ConstructionPercent / 100.0)
	p.UnbuiltArea = p.LotArea - p.BuiltArea

	p.WarehouseArea = 0
	p.TowersCount = 0
	p.UnitsPerTower = 0

	switch p.Type {
	case TypeHouse:
		switch p.SizeClass {
		case SizeLarge:
			p.MinUnitArea = float64(p.RoomsPerUnit)*30.0 + 40.0
		case SizeMedium:
			p.MinUnitArea = float64(p.RoomsPerUnit)*25.0 + 35.0
		case SizeSmall:
			p.MinUnitArea = 60.0
		}
		p.UnitCount = p.optimalUnitCount(betaHouse)
	case TypeBuilding:
		p.MinUnitArea = float64(p.RoomsPerUnit)*20.0 + 30.0
		p.UnitCount = p.optimalUnitCount(betaBuilding)
		p.TowersCount = int(math.Ceil(float64(p.UnitCount) / float64(towerCapacity)))
		p.UnitsPerTower = min(towerCapacity, p.UnitCount)
	case TypeOther:
		p.WarehouseArea = p.LotArea * warehouseLotShare
		p.MinUnitArea = warehouseMinUnitArea
		p.UnitCount = max(1, int(math.Floor(p.WarehouseArea/p.MinUnitArea)))
	}

	p.LandCostTotal = p.LotArea * p.LandPricePerM2
	p.ConstructionCostPerM2 = costPerM2ByStratum(p.Stratum)
	p.ConstructionCostTotal = p.BuiltArea * p.ConstructionCostPerM2
	p.TotalBudget = p.LandCostTotal + p.ConstructionCostTotal
	p.Profit = p.TotalBudget * profitShare
	if p.BuiltArea > 0 {
		p.SalePricePerM2 = saleMarkup * p.TotalBudget / p.BuiltArea
	} else {
		p.SalePricePerM2 = 0
	}
	p.SalePriceTotal = p.BuiltArea * p.SalePricePerM2
	if p.UnitCount > 0 {
		p.UnitValue = p.SalePriceTotal / float64(p.UnitCount)
	} else {
		p.UnitValue = 0
	}
}

// basePricePerM2 is the sale price per m2 before the saturation penalty,
// derived from land cost plus stratum-tiered construction cost with the
// 20% margin applied.
func (p *Project) basePricePerM2() float64 {
	if p.BuiltArea <= 0 {
		return 0
	}
	landCost := p.LotArea * p.LandPricePerM2
	constructionCost := p.BuiltArea * costPerM2ByStratum(p.Stratum)
	return saleMarkup * (landCost + constructionCost) / p.BuiltArea
}

// optimalUnitCount maximizes R(n) = n * MinUnitArea * (base - beta*n),
// giving n_opt = base / (2*beta). The result is floored at 1 before the
// physical capacity cap, so a lot too small for a single unit caps the
// count down to 0.
func (p *Project) optimalUnitCount(beta float64) int {
	n := max(1, int(math.Floor(p.basePricePerM2()/(2.0*beta))))
	capacity := int(math.Floor(p.BuiltArea / p.MinUnitArea))
	if n > capacity {
		n = capacity
	}
	return n
}

// MarginalUnitValue is d(unit value)/d(unit count) = -beta * MinUnitArea.
// Not defined for warehouse lots; ok is false for TypeOther.
func (p *Project) MarginalUnitValue() (v float64, ok bool) {
	switch p.Type {
	case TypeHouse:
		return -betaHouse * p.MinUnitArea, true
	case TypeBuilding:
		return -betaBuilding * p.MinUnitArea, true
	}
	return 0, false
}

// EstimatedDuration returns the whole number of days between the start
// date and the estimated end date.
func (p *Project) EstimatedDuration() int {
	return int(p.EstimatedEnd.Sub(p.StartDate).Hours() / 24)
}

// EditInput is a sparse set of raw-input overrides; nil fields are left
// untouched.
type EditInput struct {
	LandPricePerM2 *float64
	SizeClass      *SizeClass
	RoomsPerUnit   *int
	Stratum        *int
}

// ApplyEdit applies the supplied overrides and re-derives everything.
// The derived-field set is replaced atomically: either all overrides are
// valid and a full recomputation runs, or the project is left unchanged.
func (p *Project) ApplyEdit(in EditInput) error {
	if in.LandPricePerM2 != nil && *in.LandPricePerM2 <= 0 {
		return ErrInvalidLandPrice
	}
	if in.SizeClass != nil {
		switch *in.SizeClass {
		case SizeLarge, SizeMedium, SizeSmall:
		default:
			return ErrInvalidSizeClass
		}
	}
	if in.RoomsPerUnit != nil && *in.RoomsPerUnit < 1 {
		return ErrInvalidRooms
	}
	if in.Stratum != nil && (*in.Stratum < 1 || *in.Stratum > 6) {
		return ErrInvalidStratum
	}

	if in.LandPricePerM2 != nil {
		p.LandPricePerM2 = *in.LandPricePerM2
	}
	if in.SizeClass != nil {
		p.SizeClass = *in.SizeClass
	}
	if in.RoomsPerUnit != nil {
		p.RoomsPerUnit = *in.RoomsPerUnit
	}
	if in.Stratum != nil {
		p.Stratum = *in.Stratum
	}
	p.Recalculate()
	return nil
}

// FinalizeAt moves the project into its terminal finalized state. The
// transition is irreversible and requires an actual end date no earlier
// than the start date.
func (p *Project) FinalizeAt(actualEnd time.Time) error {
	if p.Finalized {
		return ErrAlreadyFinalized
	}
	if actualEnd.Before(p.StartDate) {
		return ErrEndBeforeStart
	}
	p.Finalized = true
	end := actualEnd
	p.ActualEnd = &end
	return nil
}
