package main

import (
	"flag"

	"github.com/joho/godotenv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/app"
	"github.com/hmtran/classpoints/internal/export"
)

// Offline export: dump the full score history from whatever store the
// config points at into an xlsx file.
func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var outPath = flag.String("out", "scores.xlsx", "Output xlsx path")
	flag.Parse()

	_ = godotenv.Load()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	records, err := service.Store.ListScores()
	if err != nil {
		logger.Error.Fatalf("Failed to list scores: %v", err)
	}

	wb, err := export.NewWorkbook([]export.SheetSpec{
		export.ScoresSheet("Scores", records),
	})
	if err != nil {
		logger.Error.Fatalf("Failed to build workbook: %v", err)
	}

	if err := wb.File.SaveAs(*outPath); err != nil {
		logger.Error.Fatalf("Failed to save workbook: %v", err)
	}

	logger.Info.Printf("Exported %d score records to %s", len(records), *outPath)
}
