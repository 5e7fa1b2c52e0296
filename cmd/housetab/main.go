package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"housetab/internal/backend"
	"housetab/internal/cli"
	"housetab/internal/core"
	"housetab/internal/render"
	"housetab/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	flags := flag.NewFlagSet("housetab", flag.ExitOnError)
	flags.Usage = usage(flags)

	newEntry := flags.Bool("new-entry", false, "Create a new month entry (interactive)")
	view := flags.String("view", "", "View month summary (format: YYYY-MM)")
	list := flags.Bool("list", false, "List all tracked months")
	deleteMonth := flags.String("delete", "", "Delete a month (format: YYYY-MM)")

	edit := flags.String("edit", "", "Edit a fixed cost of a month (format: YYYY-MM), requires --field and --amount")
	field := flags.String("field", "", "Fixed cost to edit: rent, heating, electric, water, internet")

	addCost := flags.String("add-cost", "", "Add an additional cost to a month, requires --amount and --description")
	editCost := flags.String("edit-cost", "", "Edit an additional cost of a month, requires --position, --amount and --description")
	deleteCost := flags.String("delete-cost", "", "Delete an additional cost of a month, requires --position")
	addPayment := flags.String("add-payment", "", "Record a payment toward a month, requires --amount")

	amount := flags.String("amount", "", "Monetary amount for the selected operation")
	description := flags.String("description", "", "Description for the additional cost")
	position := flags.Int("position", 0, "1-based position of the additional cost")

	if len(os.Args) == 1 {
		flags.Usage()
		return 1
	}
	_ = flags.Parse(os.Args[1:])

	// Interrupt during a prompt must not persist partial input.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nOperation cancelled by user.")
		os.Exit(1)
	}()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	ledger := services.NewLedgerService(result.Repository, result.Events)

	if err := dispatch(ctx, ledger, command{
		newEntry:    *newEntry,
		view:        *view,
		list:        *list,
		deleteMonth: *deleteMonth,
		edit:        *edit,
		field:       *field,
		addCost:     *addCost,
		editCost:    *editCost,
		deleteCost:  *deleteCost,
		addPayment:  *addPayment,
		amount:      *amount,
		description: *description,
		position:    *position,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Use --help for usage information.")
		return 1
	}
	return 0
}

type command struct {
	newEntry    bool
	view        string
	list        bool
	deleteMonth string
	edit        string
	field       string
	addCost     string
	editCost    string
	deleteCost  string
	addPayment  string
	amount      string
	description string
	position    int
}

func dispatch(ctx context.Context, ledger *services.LedgerService, cmd command) error {
	switch {
	case cmd.newEntry:
		return createNewMonth(ctx, ledger)

	case cmd.view != "":
		summary, err := ledger.GetMonth(ctx, cmd.view)
		if err != nil {
			return err
		}
		fmt.Print(render.Report(summary))
		return nil

	case cmd.list:
		totals, err := ledger.ListMonths(ctx)
		if err != nil {
			return err
		}
		fmt.Print(render.MonthList(totals))
		return nil

	case cmd.deleteMonth != "":
		if err := ledger.DeleteMonth(ctx, cmd.deleteMonth); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", cmd.deleteMonth)
		return nil

	case cmd.edit != "":
		summary, err := ledger.SetFixedCost(ctx, cmd.edit, cmd.field, cmd.amount)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s for %s\n", cmd.field, cmd.edit)
		fmt.Print(render.Report(summary))
		return nil

	case cmd.addCost != "":
		summary, err := ledger.AddCost(ctx, cmd.addCost, cmd.amount, cmd.description)
		if err != nil {
			return err
		}
		fmt.Printf("Added: $%s - %s\n", cmd.amount, strings.TrimSpace(cmd.description))
		fmt.Print(render.Report(summary))
		return nil

	case cmd.editCost != "":
		summary, err := ledger.EditCost(ctx, cmd.editCost, cmd.position, cmd.amount, cmd.description)
		if err != nil {
			return err
		}
		fmt.Printf("Updated entry %d: $%s - %s\n", cmd.position, cmd.amount, strings.TrimSpace(cmd.description))
		fmt.Print(render.Report(summary))
		return nil

	case cmd.deleteCost != "":
		removed, summary, err := ledger.DeleteCost(ctx, cmd.deleteCost, cmd.position)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted entry %d: $%s - %s\n", cmd.position, core.FormatAmount(removed.Amount), removed.Description)
		fmt.Print(render.Report(summary))
		return nil

	case cmd.addPayment != "":
		summary, err := ledger.AddPayment(ctx, cmd.addPayment, cmd.amount)
		if err != nil {
			return err
		}
		fmt.Printf("Payment recorded: $%s\n", cmd.amount)
		fmt.Print(render.Report(summary))
		return nil
	}

	return fmt.Errorf("no command provided")
}

// createNewMonth prompts for a month key and the five fixed costs,
// re-prompting until each value is valid, then persists the month.
func createNewMonth(ctx context.Context, ledger *services.LedgerService) error {
	fmt.Println("Creating new month...")
	reader := bufio.NewReader(os.Stdin)

	monthKey, err := promptMonthKey(reader)
	if err != nil {
		return err
	}

	costs := services.FixedCosts{}
	for _, in := range []struct {
		name string
		dst  *string
	}{
		{"rent", &costs.Rent},
		{"heating", &costs.Heating},
		{"electric", &costs.Electric},
		{"water", &costs.Water},
		{"internet", &costs.Internet},
	} {
		value, err := promptAmount(reader, in.name)
		if err != nil {
			return err
		}
		*in.dst = value
	}

	summary, err := ledger.CreateMonth(ctx, monthKey, costs)
	if err != nil {
		return err
	}
	fmt.Print(render.Report(summary))
	return nil
}

func promptMonthKey(reader *bufio.Reader) (string, error) {
	for {
		fmt.Print("Enter month/year (YYYY-MM): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if core.ValidateMonthKey(line) == nil {
			return line, nil
		}
		fmt.Println("Please enter valid format YYYY-MM")
	}
}

func promptAmount(reader *bufio.Reader, name string) (string, error) {
	for {
		fmt.Printf("Enter amount for %s: ", name)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if _, err := core.ParseAmount(line); err == nil {
			return line, nil
		}
		fmt.Println("Please enter a valid dollar amount")
	}
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, "housetab - track monthly household expenses and utilities")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		flags.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  housetab --new-entry                                  Create a new month entry")
		fmt.Fprintln(os.Stderr, "  housetab --view 2025-01                               View January 2025 summary")
		fmt.Fprintln(os.Stderr, "  housetab --list                                       List all tracked months")
		fmt.Fprintln(os.Stderr, "  housetab --edit 2025-01 --field rent --amount 1250    Update the rent")
		fmt.Fprintln(os.Stderr, "  housetab --add-cost 2025-01 --amount 45.50 --description parking")
		fmt.Fprintln(os.Stderr, "  housetab --add-payment 2025-01 --amount 700")
	}
}
