// Command replay_summary recomputes the stored performance summaries of
// verified and published passports and reports any drift. The summary is a
// pure function of the mentor evaluation, so a replay on clean data must
// reproduce every stored value exactly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/internal/service"
)

type record struct {
	IppID      string                  `db:"ipp_id"`
	Status     models.PassportStatus   `db:"status"`
	Evaluation models.MentorEvaluation `db:"evaluation"`
	Summary    models.PassportSummary  `db:"summary"`
}

func main() {
	var (
		dsn     string
		fix     bool
		timeout time.Duration
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.BoolVar(&fix, "fix", false, "Rewrite drifted summaries instead of only reporting")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall run timeout")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing -dsn (or DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var records []record
	const query = `SELECT ipp_id, status, evaluation, summary FROM passports WHERE status IN ('verified', 'published')`
	if err := db.SelectContext(ctx, &records, query); err != nil {
		log.Fatalf("failed to load passports: %v", err)
	}

	var drifted int
	for _, rec := range records {
		expected := service.SummarizeEvaluation(rec.Evaluation)
		if expected == rec.Summary {
			continue
		}
		drifted++
		fmt.Printf("DRIFT %s (%s): stored %.1f/%s/%d expected %.1f/%s/%d\n",
			rec.IppID, rec.Status,
			rec.Summary.OverallRating, rec.Summary.PerformanceGrade, rec.Summary.EmployabilityScore,
			expected.OverallRating, expected.PerformanceGrade, expected.EmployabilityScore)

		if fix {
			const update = `UPDATE passports SET summary = $2, updated_at = now() WHERE ipp_id = $1`
			if _, err := db.ExecContext(ctx, update, rec.IppID, expected); err != nil {
				log.Printf("failed to rewrite summary for %s: %v", rec.IppID, err)
			}
		}
	}

	fmt.Printf("checked %d passports, %d drifted\n", len(records), drifted)
	if drifted > 0 && !fix {
		os.Exit(1)
	}
}
