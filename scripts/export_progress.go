// Exports a company's training progress report as CSV.
//
// The company portal shows the same report interactively; this script is for
// compliance exports and scheduled snapshots outside the UI.
//
// Usage: go run scripts/export_progress.go -company 42 -password secret -out report.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/util"
	"starcomm_training_client/pkg/logger"
)

func main() {
	companyID := flag.Uint("company", 0, "company id")
	password := flag.String("password", "", "company admin password")
	configPath := flag.String("config", "configs", "config directory")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	if *companyID == 0 || *password == "" {
		log.Fatal("both -company and -password are required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger.InitLogger(cfg)

	ctx := context.Background()
	api := client.New(cfg, logger.Log)

	status, err := api.CompanyLogin(ctx, uint(*companyID), *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	if status.Token != "" {
		api.SetToken(status.Token)
	}

	report, err := api.CompanyProgressReport(ctx, uint(*companyID))
	if err != nil {
		log.Fatalf("report fetch failed: %v", err)
	}

	headers := []string{"name", "email", "department", "completed_modules", "assigned_modules", "average_score"}
	rows := make([]map[string]string, 0, len(report.Employees))
	for _, row := range report.Employees {
		rows = append(rows, map[string]string{
			"name":              row.Employee.Name,
			"email":             row.Employee.Email,
			"department":        row.Employee.Department,
			"completed_modules": fmt.Sprintf("%d", row.CompletedModules),
			"assigned_modules":  fmt.Sprintf("%d", row.AssignedModules),
			"average_score":     fmt.Sprintf("%.1f", row.AverageScore),
		})
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("cannot create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := util.RenderCSV(w, headers, rows); err != nil {
		log.Fatalf("writing CSV: %v", err)
	}
}
