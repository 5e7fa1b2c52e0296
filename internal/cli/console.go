package cli

import (
	"context"
	"fmt"
	"strings"

	"housetab/internal/core"
	"housetab/internal/render"
	"housetab/internal/services"
)

const consoleHelp = `Available console commands:
-l, --list                    List all months
-l YYYY-MM                   Show specific month summary
-n YYYY-MM                   Create new month (interactive)
-d YYYY-MM                   Delete month
-e YYYY-MM -t UTILITY        Edit utility (rent, heating, electric, water, internet)

Examples:
housetab -l                  # List all months
housetab -l 2025-01          # Show January 2025 summary
housetab -n 2025-02          # Create February 2025 (will prompt for values)
housetab -d 2025-01          # Delete January 2025
housetab -e 2025-01 -t rent  # Edit rent for January 2025`

// ConsoleResult is the outcome of one console command. RefreshNeeded tells
// the web UI to reload its month table after a mutation.
type ConsoleResult struct {
	Output        string
	RefreshNeeded bool
}

// Console executes the line-oriented commands shared by the terminal and
// the web console. Interactive commands cannot prompt here, so they answer
// with a pointer to the right surface instead.
type Console struct {
	ledger *services.LedgerService
}

func NewConsole(ledger *services.LedgerService) *Console {
	return &Console{ledger: ledger}
}

// Execute parses and runs one command line. Input and lookup problems come
// back as wrapped validation or not-found errors so callers can map them to
// exit codes or HTTP statuses.
func (c *Console) Execute(ctx context.Context, command string) (ConsoleResult, error) {
	parts := strings.Fields(strings.TrimSpace(command))
	if len(parts) == 0 {
		return ConsoleResult{}, fmt.Errorf("%w: no command provided", core.ErrValidation)
	}

	switch parts[0] {
	case "help":
		return ConsoleResult{Output: consoleHelp}, nil

	case "-l", "--list":
		if len(parts) == 1 {
			totals, err := c.ledger.ListMonths(ctx)
			if err != nil {
				return ConsoleResult{}, err
			}
			return ConsoleResult{Output: render.MonthList(totals)}, nil
		}
		if len(parts) == 2 {
			summary, err := c.ledger.GetMonth(ctx, parts[1])
			if err != nil {
				return ConsoleResult{}, err
			}
			return ConsoleResult{Output: render.Report(summary)}, nil
		}
		return ConsoleResult{}, fmt.Errorf("%w: list takes at most one month (YYYY-MM)", core.ErrValidation)

	case "-d", "--delete-month":
		if len(parts) != 2 {
			return ConsoleResult{}, fmt.Errorf("%w: delete command requires month (YYYY-MM)", core.ErrValidation)
		}
		if err := c.ledger.DeleteMonth(ctx, parts[1]); err != nil {
			return ConsoleResult{}, err
		}
		return ConsoleResult{Output: fmt.Sprintf("Deleted %s", parts[1]), RefreshNeeded: true}, nil

	case "-n", "--new-entry":
		return ConsoleResult{Output: "Month creation is interactive. Use the web form or run: housetab --new-entry"}, nil

	case "-e", "--edit-month":
		return ConsoleResult{Output: "Editing is interactive. Use the web form or run: housetab --edit with --field and --amount"}, nil

	default:
		return ConsoleResult{}, fmt.Errorf("%w: unknown command %q, type \"help\" for available commands", core.ErrValidation, parts[0])
	}
}
