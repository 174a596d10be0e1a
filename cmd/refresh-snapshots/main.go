// refresh-snapshots lists daily records whose petty cash snapshot no longer
// matches the petty cash ledger, and with -apply re-freezes them through the
// regular update path (one UPDATE audit entry per record).
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	go run ./cmd/refresh-snapshots -from 2024-03-01 -to 2024-03-31 [-apply]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/mmdatafocus/dailycash_backend/workflow"
)

func parseDateFlag(name string, value string) utils.DateString {
	if value == "" {
		return ""
	}
	d, err := utils.ParseDateString(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -%s: %v\n", name, err)
		os.Exit(2)
	}
	return d
}

func main() {
	from := flag.String("from", "", "Optional: start date (YYYY-MM-DD).")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD).")
	apply := flag.Bool("apply", false, "Rewrite stale records; without it only report them.")
	flag.Parse()

	filter := models.DailyRecordFilter{
		FromDate: parseDateFlag("from", *from),
		ToDate:   parseDateFlag("to", *to),
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := utils.SetUserNameInContext(context.Background(), "RefreshSnapshots")
	svc := workflow.NewDailyRecordService(models.NewGormStore(db), workflow.WithLocker(nil))

	views, err := svc.List(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list daily records: %v\n", err)
		os.Exit(1)
	}

	stale, refreshed := 0, 0
	for _, v := range views {
		if !v.Stale {
			continue
		}
		stale++
		fmt.Printf("stale: id=%d date=%s snapshot=%s live=%s\n", v.ID, v.Entry.Date,
			utils.FormatAmount(v.Entry.PettyCashExpenseTotal), utils.FormatAmount(v.PettyCashLive))
		if !*apply {
			continue
		}
		saved, err := svc.Update(ctx, v.ID, v.Entry.Form(), reconciliation.AlwaysConfirm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to refresh id=%d: %v\n", v.ID, err)
			continue
		}
		refreshed++
		fmt.Printf("refreshed: id=%d balance=%s\n", saved.ID, utils.FormatAmount(saved.Entry.Derived.Balance))
	}
	fmt.Printf("checked=%d stale=%d refreshed=%d\n", len(views), stale, refreshed)
}
