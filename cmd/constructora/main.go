package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"constructora/internal/chart"
	"constructora/internal/config"
	"constructora/internal/currency"
	"constructora/internal/domain"
	"constructora/internal/projects"
	"constructora/internal/receipt"
	"constructora/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type cli struct {
	svc *projects.Service
	p   *prompter

	// Display currency for the session; all stored values stay canonical.
	cur currency.Code
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		dbStore, err := store.OpenDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open project database")
		}
		st = dbStore
	} else {
		fileStore, err := store.OpenFile(cfg.DataFile)
		if err != nil {
			log.Fatal().Err(err).Msg("open project store")
		}
		st = fileStore
	}

	receipts, err := receipt.NewGenerator(cfg.ReceiptsDir, cfg.FinalizedDir)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare receipt directories")
	}

	cur, ok := currency.Parse(cfg.Currency)
	if !ok {
		cur = currency.COP
	}

	app := &cli{
		svc: projects.NewService(st, receipts),
		p:   &prompter{in: bufio.NewScanner(os.Stdin)},
		cur: cur,
	}
	app.run(context.Background())
}

func (c *cli) run(ctx context.Context) {
	for {
		fmt.Println("\n=== MAIN MENU ===")
		fmt.Println("1. Register project")
		fmt.Println("2. View project")
		fmt.Println("3. Price growth")
		fmt.Println("4. Project balance")
		fmt.Println("5. Finalize project")
		fmt.Println("6. Options")
		fmt.Println("7. Exit")

		switch c.p.line("Option: ") {
		case "1":
			c.register(ctx)
		case "2":
			c.view(ctx)
		case "3":
			c.priceGrowth(ctx)
		case "4":
			c.balance(ctx)
		case "5":
			c.finalize(ctx)
		case "6":
			c.options(ctx)
		case "7":
			fmt.Println("Bye.")
			return
		default:
			fmt.Println("  Invalid option.")
		}
	}
}

func (c *cli) register(ctx context.Context) {
	id := c.p.line("Project ID (blank for a generated one): ")

	var ptype domain.ProjectType
	for {
		t, ok := domain.ParseProjectType(c.p.line("Project type (house/building/other): "))
		if ok {
			ptype = t
			break
		}
		fmt.Println("  Invalid option.")
	}

	start, ok := c.p.date("Start date (YYYY-MM-DD): ", nil)
	if !ok {
		fmt.Println("  Start date is required.")
		return
	}

	address := c.p.line("Project address: ")
	if address == "" {
		fmt.Println("  The address cannot be empty.")
		return
	}

	lotArea, ok := c.p.float("Total lot area (m2): ")
	if !ok {
		return
	}
	landPrice, ok := c.p.float("Land price per m2 (COP): ")
	if !ok {
		return
	}

	var size domain.SizeClass
	for {
		s, ok := domain.ParseSizeClass(c.p.line("Construction size (large/medium/small): "))
		if ok {
			size = s
			break
		}
		fmt.Println("  Invalid option.")
	}

	stratum, ok := c.p.integer("Stratum (1-6): ", intPtr(1), intPtr(6))
	if !ok {
		return
	}

	rooms := 0
	if ptype != domain.TypeOther {
		rooms, ok = c.p.integer("Rooms per unit (1-5 recommended): ", intPtr(1), intPtr(5))
		if !ok {
			return
		}
	}

	estimated, ok := c.p.date("Estimated end date (YYYY-MM-DD): ", &start)
	if !ok {
		return
	}

	p, err := c.svc.Register(ctx, projects.RegisterInput{
		ID:             id,
		Type:           ptype,
		StartDate:      start,
		EstimatedEnd:   estimated,
		Address:        address,
		LotArea:        lotArea,
		LandPricePerM2: landPrice,
		SizeClass:      size,
		Stratum:        stratum,
		RoomsPerUnit:   rooms,
	}, c.cur)
	if err != nil {
		fmt.Printf("  Could not register the project: %v\n", err)
		return
	}

	fmt.Println("\n--- Registered project summary ---")
	fmt.Print(receipt.Render(p, c.cur))
	fmt.Printf("  Receipt written to: %s\n", c.svc.Receipts.ActivePath(p.ID))
}

func (c *cli) lookup(ctx context.Context, prompt string) *domain.Project {
	all, err := c.svc.List(ctx)
	if err != nil {
		fmt.Printf("  Could not list projects: %v\n", err)
		return nil
	}
	if len(all) == 0 {
		fmt.Println("  No projects registered.")
		return nil
	}
	p, err := c.svc.Get(ctx, c.p.line(prompt))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("  Project not found.")
		} else {
			fmt.Printf("  Lookup failed: %v\n", err)
		}
		return nil
	}
	return p
}

func (c *cli) view(ctx context.Context) {
	p := c.lookup(ctx, "Project ID to view: ")
	if p == nil {
		return
	}
	fmt.Print(receipt.Render(p, c.cur))
	fmt.Printf("Estimated duration: %d days\n", p.EstimatedDuration())
}

func (c *cli) priceGrowth(ctx context.Context) {
	p := c.lookup(ctx, "Project ID for the price growth chart: ")
	if p == nil {
		return
	}
	fmt.Println(chart.RenderGrowth(p, c.cur, 10))
}

func (c *cli) balance(ctx context.Context) {
	p := c.lookup(ctx, "Project ID for the balance view: ")
	if p == nil {
		return
	}
	fmt.Print(chart.RenderBalance(p, c.cur))
}

func (c *cli) finalize(ctx context.Context) {
	p := c.lookup(ctx, "Project ID to finalize: ")
	if p == nil {
		return
	}
	actual, ok := c.p.date("Actual end date (YYYY-MM-DD): ", &p.StartDate)
	if !ok {
		return
	}
	if _, err := c.svc.Finalize(ctx, p.ID, actual, c.cur); err != nil {
		fmt.Printf("  Could not finalize the project: %v\n", err)
		return
	}
	fmt.Printf("  Project %s finalized.\n", p.ID)
}

func (c *cli) options(ctx context.Context) {
	for {
		fmt.Println("\n=== OPTIONS ===")
		fmt.Println("1. Edit a project")
		fmt.Println("2. Delete a project")
		fmt.Println("3. Change currency (COP, USD, EUR)")
		fmt.Println("4. Back to main menu")

		switch c.p.line("Option: ") {
		case "1":
			c.edit(ctx)
		case "2":
			c.delete(ctx)
		case "3":
			fmt.Printf("  Current currency: %s\n", c.cur)
			code, ok := currency.Parse(c.p.line("  New currency (COP, USD, EUR): "))
			if !ok {
				fmt.Println("  Invalid currency.")
				continue
			}
			c.cur = code
			fmt.Printf("  Currency changed to %s.\n", c.cur)
		case "4":
			return
		default:
			fmt.Println("  Invalid option.")
		}
	}
}

func (c *cli) edit(ctx context.Context) {
	p := c.lookup(ctx, "Project ID to edit: ")
	if p == nil {
		return
	}
	fmt.Println("  Enter new values, or leave blank to keep the current ones.")

	var in domain.EditInput
	if v, ok := c.p.float("  New land price per m2 (COP): "); ok {
		in.LandPricePerM2 = &v
	}
	if s, ok := domain.ParseSizeClass(c.p.line("  New size (large/medium/small): ")); ok {
		in.SizeClass = &s
	}
	if v, ok := c.p.integer("  New rooms per unit: ", intPtr(1), nil); ok {
		in.RoomsPerUnit = &v
	}
	if v, ok := c.p.integer("  New stratum (1-6): ", intPtr(1), intPtr(6)); ok {
		in.Stratum = &v
	}

	if _, err := c.svc.Edit(ctx, p.ID, in, c.cur); err != nil {
		fmt.Printf("  Could not update the project: %v\n", err)
		return
	}
	fmt.Printf("  Project updated, receipt regenerated in: %s\n", c.svc.Receipts.ActivePath(p.ID))
}

func (c *cli) delete(ctx context.Context) {
	p := c.lookup(ctx, "Project ID to delete: ")
	if p == nil {
		return
	}
	if !c.p.confirm("  Delete this project? (y/n): ") {
		fmt.Println("  Cancelled.")
		return
	}
	if err := c.svc.Delete(ctx, p.ID); err != nil {
		fmt.Printf("  Could not delete the project: %v\n", err)
		return
	}
	fmt.Println("  Project deleted.")
}
