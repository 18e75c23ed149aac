package receipt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"constructora/internal/currency"
	"constructora/internal/domain"

	"github.com/dustin/go-humanize"
)

const divider = "===========================================\n"

// Render produces the full text receipt for a project in the given display
// currency. It is a pure function of its arguments; no derived state is
// recomputed here.
func Render(p *domain.Project, cur currency.Code) string {
	var b strings.Builder

	b.WriteString(divider)
	b.WriteString("             PROJECT RECEIPT               \n")
	b.WriteString(divider)
	b.WriteString("\n")

	fmt.Fprintf(&b, "1. GENERAL DATA\n")
	fmt.Fprintf(&b, "   ID                          : %s\n", p.ID)
	fmt.Fprintf(&b, "   Project type                : %s\n", titleCase(string(p.Type)))
	fmt.Fprintf(&b, "   Start date                  : %s\n", p.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "   Address                     : %s\n\n", p.Address)

	fmt.Fprintf(&b, "2. AREAS AND LAND\n")
	fmt.Fprintf(&b, "   Total lot area              : %s m2\n", area(p.LotArea))
	fmt.Fprintf(&b, "   Land price per m2           : %s /m2\n", currency.Format(p.LandPricePerM2, cur))
	fmt.Fprintf(&b, "   Total land cost             : %s\n", currency.Format(p.LandCostTotal, cur))
	fmt.Fprintf(&b, "   Built area percentage       : %.0f %%\n", p.ConstructionPercent)
	fmt.Fprintf(&b, "   Built area                  : %s m2\n", area(p.BuiltArea))
	fmt.Fprintf(&b, "   Unbuilt area                : %s m2\n\n", area(p.UnbuiltArea))

	fmt.Fprintf(&b, "3. UNIT CONSTRAINTS\n")
	if p.Type == domain.TypeBuilding {
		fmt.Fprintf(&b, "   Number of towers            : %d\n", p.TowersCount)
		fmt.Fprintf(&b, "   Units per tower             : %d\n", p.UnitsPerTower)
	}
	fmt.Fprintf(&b, "   Rooms per unit              : %d\n", p.RoomsPerUnit)
	fmt.Fprintf(&b, "   Minimum area per unit       : %s m2\n", area(p.MinUnitArea))
	fmt.Fprintf(&b, "   Estimated number of units   : %d\n", p.UnitCount)
	fmt.Fprintf(&b, "   Value per unit              : %s\n\n", currency.Format(p.UnitValue, cur))

	fmt.Fprintf(&b, "4. COSTS AND PROFIT\n")
	fmt.Fprintf(&b, "   Construction cost per m2           : %s /m2\n", currency.Format(p.ConstructionCostPerM2, cur))
	fmt.Fprintf(&b, "   Construction cost total            : %s\n", currency.Format(p.ConstructionCostTotal, cur))
	fmt.Fprintf(&b, "   Budget (land + construction)       : %s\n", currency.Format(p.TotalBudget, cur))
	fmt.Fprintf(&b, "   Profit (20%%)                       : %s\n", currency.Format(p.Profit, cur))
	fmt.Fprintf(&b, "   Sale price per m2 (derived)        : %s /m2\n", currency.Format(p.SalePricePerM2, cur))
	fmt.Fprintf(&b, "   Sale price total                   : %s\n\n", currency.Format(p.SalePriceTotal, cur))

	if v, ok := p.MarginalUnitValue(); ok {
		fmt.Fprintf(&b, "   Marginal unit value per extra unit : %s\n\n", humanize.FormatFloat("#,###.##", v))
	}

	fmt.Fprintf(&b, "5. SOCIAL AMENITIES\n")
	fmt.Fprintf(&b, "   %s\n\n", strings.Join(p.SocialAmenities, ", "))

	fmt.Fprintf(&b, "6. COMPLETION DATES\n")
	fmt.Fprintf(&b, "   Estimated completion date   : %s\n", p.EstimatedEnd.Format("2006-01-02"))
	if p.Finalized && p.ActualEnd != nil {
		fmt.Fprintf(&b, "   Actual completion date      : %s\n", p.ActualEnd.Format("2006-01-02"))
	}
	b.WriteString("\n")
	b.WriteString(divider)

	return b.String()
}

func area(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Generator writes receipts into an active area and relocates them to a
// finalized area when a project is finalized.
type Generator struct {
	ActiveDir    string
	FinalizedDir string
}

// NewGenerator ensures both receipt areas exist.
func NewGenerator(activeDir, finalizedDir string) (*Generator, error) {
	for _, dir := range []string{activeDir, finalizedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create receipts dir: %w", err)
		}
	}
	return &Generator{ActiveDir: activeDir, FinalizedDir: finalizedDir}, nil
}

// ActivePath returns the receipt location for an active project.
func (g *Generator) ActivePath(id string) string {
	return filepath.Join(g.ActiveDir, id+".txt")
}

// FinalizedPath returns the receipt location for a finalized project.
func (g *Generator) FinalizedPath(id string) string {
	return filepath.Join(g.FinalizedDir, id+".txt")
}

// Write renders the project and stores the receipt in the active area,
// returning the file path.
func (g *Generator) Write(p *domain.Project, cur currency.Code) (string, error) {
	path := g.ActivePath(p.ID)
	if err := os.WriteFile(path, []byte(Render(p, cur)), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

// MoveToFinalized relocates a project's receipt from the active to the
// finalized area. A missing active receipt is not an error; the returned
// path is empty in that case.
func (g *Generator) MoveToFinalized(id string) (string, error) {
	src := g.ActivePath(id)
	dst := g.FinalizedPath(id)
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("move receipt: %w", err)
	}
	return dst, nil
}

// Remove deletes an active receipt if it exists.
func (g *Generator) Remove(id string) error {
	if err := os.Remove(g.ActivePath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove receipt: %w", err)
	}
	return nil
}
