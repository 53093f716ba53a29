package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/seed"
)

func main() {
	app := &cli.App{
		Name:      "loadcsv",
		Usage:     "Load ingredients, tags or users from a CSV file whose first row names the columns.",
		ArgsUsage: "<ingredients|tags|users> <file.csv>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Value: true,
				Usage: "Bring the schema up to date before loading.",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 2)
	}
	kind, err := seed.ParseKind(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	path := c.Args().Get(1)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	if c.Bool("migrate") {
		if err := database.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %q could not be opened: %w", path, err)
	}
	defer f.Close()

	res, err := seed.NewLoader(db).Load(c.Context, kind, f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Infof("Successfully loaded %q: %d inserted, %d already present", path, res.Inserted, res.Skipped)
	return nil
}
