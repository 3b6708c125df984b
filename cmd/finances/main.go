package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"finances/internal/backend"
	"finances/internal/config"
	"finances/internal/core"
	"finances/internal/ledger"
	applog "finances/internal/log"
)

// displayDateLayout matches the report window format of the legacy app.
const displayDateLayout = "02.01.06, 15:04:05"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	base := applog.New(applog.Config{Level: cfg.SlogLevel()})
	logger := base.WithComponent(applog.ComponentApp)
	applog.SetDefault(logger)

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	factory := backend.NewFactory(base.WithComponent(applog.ComponentBackend).Logger)
	res, err := factory.CreateStore(backend.Config{
		Type:       backend.Type(cfg.Backend),
		LedgerFile: cfg.LedgerFile,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.Backend)
		return 1
	}
	defer func() {
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	}()

	svc := ledger.NewService(res.Store)
	ctx := context.Background()

	switch args[0] {
	case "add":
		err = runAdd(ctx, svc, args[1:])
	case "balance":
		err = runBalance(ctx, svc)
	case "report":
		err = runReport(ctx, svc, args[1:])
	case "set-limit":
		err = runSetLimit(ctx, svc, args[1:])
	case "categories":
		err = runCategories(ctx, svc)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func runAdd(ctx context.Context, svc *ledger.Service, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amountStr := fs.String("amount", "", "signed amount, negative for a debit (required)")
	category := fs.String("category", "", "category label (required)")
	note := fs.String("note", "", "free-form note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := core.ParseAmount(*amountStr)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amountStr, err)
	}

	tx, warning, err := svc.Add(ctx, amount, *category, *note)
	if err != nil {
		return err
	}
	if warning != nil {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
	fmt.Printf("Transaction (%s) recorded: %s in %q\n", tx.Kind(), tx.Amount.StringFixed(2), tx.Category)
	return nil
}

func runBalance(ctx context.Context, svc *ledger.Service) error {
	balance, err := svc.Balance(ctx)
	if err != nil {
		return err
	}
	fmt.Println(balance.StringFixed(2))
	return nil
}

func runReport(ctx context.Context, svc *ledger.Service, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	sortBy := fs.String("sort", ledger.SortByDate, "sort field: date, amount, category or note")
	desc := fs.Bool("desc", false, "sort descending")
	from := fs.String("from", "", "start date, DD.MM.YYYY")
	to := fs.String("to", "", "end date, DD.MM.YYYY")
	category := fs.String("category", "", "only this category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	transactions, err := svc.Report(ctx, ledger.ReportQuery{
		SortBy:     *sortBy,
		Descending: *desc,
		StartDate:  *from,
		EndDate:    *to,
		Category:   *category,
	})
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Amount", "Type", "Category", "Note"})
	for _, t := range transactions {
		table.Append([]string{
			t.CreatedAt.Format(displayDateLayout),
			t.Amount.StringFixed(2),
			string(t.Kind()),
			t.Category,
			t.Note,
		})
	}
	table.Render()
	return nil
}

func runSetLimit(ctx context.Context, svc *ledger.Service, args []string) error {
	fs := flag.NewFlagSet("set-limit", flag.ExitOnError)
	category := fs.String("category", "", "category label (required)")
	limitStr := fs.String("limit", "", "non-negative limit on the category's net total (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	max, err := core.ParseAmount(*limitStr)
	if err != nil {
		return fmt.Errorf("limit %q: %w", *limitStr, err)
	}
	if err := svc.SetLimit(ctx, *category, max); err != nil {
		return err
	}
	fmt.Printf("Limit for category %q set to %s\n", *category, max.StringFixed(2))
	return nil
}

func runCategories(ctx context.Context, svc *ledger.Service) error {
	categories, err := svc.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(categories, "\n"))
	return nil
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: finances <command> [flags]

Commands:
  add         record a transaction (-amount, -category, [-note])
  balance     print the current balance
  report      print a filtered, sorted transaction report
              ([-sort date|amount|category|note] [-desc] [-from DD.MM.YYYY]
               [-to DD.MM.YYYY] [-category X])
  set-limit   set a category spending limit (-category, -limit)
  categories  list categories present among transactions

Environment (also read from .env):
  LEDGER_BACKEND      file | sqlite | memory (default file)
  LEDGER_FILE         ledger document path (default ./data/finances.json)
  LEDGER_SQLITE_PATH  sqlite database path (default ./data/finances.db)
  LEDGER_LOG_LEVEL    debug | info | warn | error (default info)
`)
}
