package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"popsynth/adapters/census"
	"popsynth/adapters/export"
	"popsynth/adapters/recode"
	"popsynth/adapters/synth"
	"popsynth/app"
	"popsynth/internal/augment"
	"popsynth/internal/config"
	"popsynth/internal/rng"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(context.Background(), appConfig); err != nil {
		log.Printf("Pipeline failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, appConfig *config.Config) error {
	source := census.NewClient(census.Query{
		BaseURL: appConfig.Census.BaseURL,
		APIKey:  appConfig.Census.APIKey,
		Fields:  appConfig.Census.Fields,
		Timeout: appConfig.Census.Timeout,
	})

	synthConfig := synth.DefaultConfig()
	synthConfig.MinAge = appConfig.Synthesis.MinAge

	pipeline := app.NewPipelineService(
		source,
		recode.NewNormalizer(),
		synth.NewSynthesizer(synthConfig),
		augment.NewAugmenter(augment.Model{
			Intercept: appConfig.Insurance.Intercept,
			AgeCoef:   appConfig.Insurance.AgeCoef,
			SexCoef:   appConfig.Insurance.SexCoef,
		}),
		export.NewCSVExporter(),
		export.NewXLSXExporter(),
		rng.NewAdapter(),
	)

	result, err := pipeline.Run(ctx, app.RunRequest{
		Seed:       appConfig.Synthesis.Seed,
		TargetRows: appConfig.Synthesis.SampleSize,
		CSVPath:    appConfig.Output.CSVPath,
		XLSXPath:   appConfig.Output.XLSXPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n=== SYNTHETIC POPULATION RUN ===\n")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Seed: %d\n", result.Seed)
	fmt.Printf("Fetched Rows: %d\n", result.FetchedRows)
	fmt.Printf("Cleaned Rows: %d\n", result.CleanedRows)
	fmt.Printf("Synthetic Rows: %d\n", result.SyntheticRows)
	fmt.Printf("Insured Rate: %.1f%%\n", result.InsuredRate*100)
	fmt.Printf("Mean Synthetic Age: %.1f\n", result.Profile.Age.Mean)
	fmt.Printf("Income Missing Rate: %.1f%%\n", result.Profile.Income.MissingRate*100)
	fmt.Printf("Fingerprint: %s\n", result.Fingerprint)
	fmt.Printf("Runtime: %d ms\n", result.RuntimeMs)
	fmt.Printf("\nExports written to %s and %s\n", appConfig.Output.CSVPath, appConfig.Output.XLSXPath)
	fmt.Printf("This run is deterministic and replayable from the seed and fingerprint.\n")

	return nil
}
