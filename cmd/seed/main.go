package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"template-checkout/internal/config"
	pg "template-checkout/internal/infra/db/postgres"
	"template-checkout/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (monthly=%d NGN, quarterly=%d NGN)\n", p.Name, p.MonthlyNGN, p.QuarterlyNGN)
		}
		return
	}

	seed := []struct {
		ID        string
		Name      string
		Monthly   int64
		Quarterly int64
		Features  []string
	}{
		{"standard", "Standard", 3_500, 3_166, []string{
			"5 pages", "Mobile responsive", "Contact form", "Basic SEO",
		}},
		{"premium", "Premium", 5_000, 4_666, []string{
			"10 pages", "Mobile responsive", "Contact form", "Advanced SEO",
			"Social media integration", "Google Analytics",
		}},
		{"enterprise", "Enterprise", 10_000, 9_666, []string{
			"Unlimited pages", "Mobile responsive", "E-commerce ready",
			"Advanced SEO", "Priority support", "Custom integrations",
		}},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, s.ID, s.Name, s.Monthly, s.Quarterly, s.Features)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, monthly=%d NGN, quarterly=%d NGN)\n", p.Name, p.ID, p.MonthlyNGN, p.QuarterlyNGN)
	}

	fmt.Println("Seeding complete.")
}
