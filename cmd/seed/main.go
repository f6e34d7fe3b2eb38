package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/fotherbys-backend/internal/app"
	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/seed"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "fixtures/seed.yaml", "seed fixture to load")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the fixture without writing")
	flag.Parse()

	fixture, err := seed.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("%s: %d clients, %d auctions, %d lots\n", path, len(fixture.Clients), len(fixture.Auctions), len(fixture.Lots))
		return
	}

	_ = godotenv.Load()
	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	res, err := seed.Apply(ctx, db.NewTxRunner(a.DB), seed.Repos{
		Client:  a.Repos.Client,
		Auction: a.Repos.Auction,
		Lot:     a.Repos.Lot,
	}, a.Log, services.SystemClock(), fixture)
	if err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	fmt.Printf("seeded: clients=%d auctions=%d lots=%d skipped=%d\n",
		res.ClientsCreated, res.AuctionsCreated, res.LotsCreated, res.Skipped)
}
