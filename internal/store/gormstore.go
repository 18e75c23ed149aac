package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"constructora/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// projectRecord is the database shape of a project. Every raw and derived
// field is persisted so a reload needs no recomputation.
type projectRecord struct {
	ID                    string         `gorm:"column:id;primaryKey"`
	Type                  string         `gorm:"column:type;type:varchar(16);not null"`
	StartDate             time.Time      `gorm:"column:start_date;not null"`
	EstimatedEnd          time.Time      `gorm:"column:estimated_end_date;not null"`
	Address               string         `gorm:"column:address;not null"`
	LotArea               float64        `gorm:"column:lot_area;not null"`
	LandPricePerM2        float64        `gorm:"column:land_price_per_m2;not null"`
	SizeClass             string         `gorm:"column:size_class;type:varchar(16);not null"`
	Stratum               int            `gorm:"column:stratum;not null"`
	RoomsPerUnit          int            `gorm:"column:rooms_per_unit"`
	Finalized             bool           `gorm:"column:finalized;not null"`
	ActualEnd             *time.Time     `gorm:"column:actual_end_date"`
	SocialAmenities       datatypes.JSON `gorm:"column:social_amenities;type:json"`
	ConstructionPercent   float64        `gorm:"column:construction_percent"`
	BuiltArea             float64        `gorm:"column:built_area"`
	UnbuiltArea           float64        `gorm:"column:unbuilt_area"`
	MinUnitArea           float64        `gorm:"column:min_unit_area"`
	WarehouseArea         float64        `gorm:"column:warehouse_area"`
	UnitCount             int            `gorm:"column:unit_count"`
	TowersCount           int            `gorm:"column:towers_count"`
	UnitsPerTower         int            `gorm:"column:units_per_tower"`
	LandCostTotal         float64        `gorm:"column:land_cost_total"`
	ConstructionCostPerM2 float64        `gorm:"column:construction_cost_per_m2"`
	ConstructionCostTotal float64        `gorm:"column:construction_cost_total"`
	TotalBudget           float64        `gorm:"column:total_budget"`
	Profit                float64        `gorm:"column:profit"`
	SalePricePerM2        float64        `gorm:"column:sale_price_per_m2"`
	SalePriceTotal        float64        `gorm:"column:sale_price_total"`
	UnitValue             float64        `gorm:"column:unit_value"`
}

func (projectRecord) TableName() string {
	return "projects"
}

// DBStore implements Store on a relational database through GORM.
type DBStore struct {
	db *gorm.DB
}

// OpenDatabase opens a DBStore. A postgres:// DSN uses the Postgres driver
// with simple protocol (pooler-safe); anything else is treated as a sqlite
// path, ":memory:" included.
func OpenDatabase(dsn string) (*DBStore, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}
	if err := db.AutoMigrate(&projectRecord{}); err != nil {
		return nil, fmt.Errorf("migrate project database: %w", err)
	}
	return &DBStore{db: db}, nil
}

func toRecord(p *domain.Project) (*projectRecord, error) {
	amenities, err := json.Marshal(p.SocialAmenities)
	if err != nil {
		return nil, fmt.Errorf("encode amenities: %w", err)
	}
	return &projectRecord{
		ID:                    p.ID,
		Type:                  string(p.Type),
		StartDate:             p.StartDate,
		EstimatedEnd:          p.EstimatedEnd,
		Address:               p.Address,
		LotArea:               p.LotArea,
		LandPricePerM2:        p.LandPricePerM2,
		SizeClass:             string(p.SizeClass),
		Stratum:               p.Stratum,
		RoomsPerUnit:          p.RoomsPerUnit,
		Finalized:             p.Finalized,
		ActualEnd:             p.ActualEnd,
		SocialAmenities:       datatypes.JSON(amenities),
		ConstructionPercent:   p.ConstructionPercent,
		BuiltArea:             p.BuiltArea,
		UnbuiltArea:           p.UnbuiltArea,
		MinUnitArea:           p.MinUnitArea,
		WarehouseArea:         p.WarehouseArea,
		UnitCount:             p.UnitCount,
		TowersCount:           p.TowersCount,
		UnitsPerTower:         p.UnitsPerTower,
		LandCostTotal:         p.LandCostTotal,
		ConstructionCostPerM2: p.ConstructionCostPerM2,
		ConstructionCostTotal: p.ConstructionCostTotal,
		TotalBudget:           p.TotalBudget,
		Profit:                p.Profit,
		SalePricePerM2:        p.SalePricePerM2,
		SalePriceTotal:        p.SalePriceTotal,
		UnitValue:             p.UnitValue,
	}, nil
}

func fromRecord(r *projectRecord) (*domain.Project, error) {
	var amenities []string
	if len(r.SocialAmenities) > 0 {
		if err := json.Unmarshal(r.SocialAmenities, &amenities); err != nil {
			return nil, fmt.Errorf("decode amenities: %w", err)
		}
	}
	return &domain.Project{
		ID:                    r.ID,
		Type:                  domain.ProjectType(r.Type),
		StartDate:             r.StartDate,
		EstimatedEnd:          r.EstimatedEnd,
		Address:               r.Address,
		LotArea:               r.LotArea,
		LandPricePerM2:        r.LandPricePerM2,
		SizeClass:             domain.SizeClass(r.SizeClass),
		Stratum:               r.Stratum,
		RoomsPerUnit:          r.RoomsPerUnit,
		Finalized:             r.Finalized,
		ActualEnd:             r.ActualEnd,
		SocialAmenities:       amenities,
		ConstructionPercent:   r.ConstructionPercent,
		BuiltArea:             r.BuiltArea,
		UnbuiltArea:           r.UnbuiltArea,
		MinUnitArea:           r.MinUnitArea,
		WarehouseArea:         r.WarehouseArea,
		UnitCount:             r.UnitCount,
		TowersCount:           r.TowersCount,
		UnitsPerTower:         r.UnitsPerTower,
		LandCostTotal:         r.LandCostTotal,
		ConstructionCostPerM2: r.ConstructionCostPerM2,
		ConstructionCostTotal: r.ConstructionCostTotal,
		TotalBudget:           r.TotalBudget,
		Profit:                r.Profit,
		SalePricePerM2:        r.SalePricePerM2,
		SalePriceTotal:        r.SalePriceTotal,
		UnitValue:             r.UnitValue,
	}, nil
}

func (s *DBStore) Put(ctx context.Context, p *domain.Project) error {
	rec, err := toRecord(p)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&projectRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	var rec projectRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch project: %w", err)
	}
	return fromRecord(&rec)
}

func (s *DBStore) List(ctx context.Context) ([]*domain.Project, error) {
	var recs []projectRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	out := make([]*domain.Project, 0, len(recs))
	for i := range recs {
		p, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
