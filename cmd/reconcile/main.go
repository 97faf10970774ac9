// Command reconcile recomputes tag and category aggregates from primary
// records. Intended to run as a cron job or on demand after incidents.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/docstore"
	"inkwell/internal/repository"
	"inkwell/internal/service"
)

func main() {
	aggregate := flag.String("aggregate", "all", "which aggregate to reconcile: tags, categories or all")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := docstore.Open(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer store.Close()

	svc := service.NewReconcileService(
		store,
		repository.NewArticleRepository(store),
		repository.NewTagRepository(store),
		repository.NewCategoryRepository(store),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var reports []*service.ReconcileReport
	switch *aggregate {
	case "tags":
		report, err := svc.RecomputeTagCounts(ctx)
		if err != nil {
			log.Fatalf("Tag reconciliation failed: %v", err)
		}
		reports = append(reports, report)
	case "categories":
		report, err := svc.RecomputeCategoryCounts(ctx)
		if err != nil {
			log.Fatalf("Category reconciliation failed: %v", err)
		}
		reports = append(reports, report)
	case "all":
		all, err := svc.Run(ctx)
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
		reports = all
	default:
		log.Fatalf("Unknown aggregate %q", *aggregate)
	}

	for _, r := range reports {
		log.Printf("%s: checked=%d repaired=%d drift=%d duration=%dms",
			r.Aggregate, r.Checked, r.Repaired, r.TotalDrift, r.DurationMsec)
	}
}
