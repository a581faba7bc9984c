package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/adapters/postgres"
	"hypewatch/internal/domain/event"
	pgrepo "hypewatch/internal/repository/postgres"
	"hypewatch/pkg/logger"
)

const usage = `Usage:
  logevent log <coin> <category> <description> [flags]
  logevent list [coin] [flags]
  logevent stats [coin]

Log a manual market event for later correlation with price and sentiment.
Use coin symbol ALL for market-wide events.

Categories: %s

Examples:
  logevent log DOGE exchange_listing "Listed on Binance" -impact 9
  logevent log PEPE influencer_mention "Elon Musk tweet" -sentiment positive -impact 8
  logevent list DOGE -limit 20
  logevent stats ALL
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	if err := logger.Init("warn", "production"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pgClient.Close()

	repo := pgrepo.NewEventRepository(pgClient.DB())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "log":
		err = runLog(ctx, repo, os.Args[2:])
	case "list":
		err = runList(ctx, repo, os.Args[2:])
	case "stats":
		err = runStats(ctx, repo, os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runLog(ctx context.Context, repo event.Repository, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	sentiment := fs.String("sentiment", "neutral", "expected sentiment impact: positive, negative, neutral")
	impact := fs.Float64("impact", 5, "impact score 1-10")
	source := fs.String("source", "", "information source (e.g. Twitter, CoinDesk)")
	url := fs.String("url", "", "source URL")
	timestamp := fs.String("timestamp", "", "event time in RFC 3339, defaults to now")

	positional, flags := splitArgs(args)
	if err := fs.Parse(flags); err != nil {
		return err
	}
	if len(positional) != 3 {
		return fmt.Errorf("log needs <coin> <category> <description>")
	}

	category := event.Category(positional[1])
	if !category.Valid() {
		return fmt.Errorf("unknown category %q, expected one of: %s", positional[1], categoryList())
	}
	switch *sentiment {
	case "positive", "negative", "neutral":
	default:
		return fmt.Errorf("sentiment must be positive, negative, or neutral")
	}
	if *impact < 1 || *impact > 10 {
		return fmt.Errorf("impact %v outside [1,10]", *impact)
	}

	when := time.Now().UTC()
	if *timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, *timestamp)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q, use RFC 3339", *timestamp)
		}
		when = parsed.UTC()
	}

	ev := &event.MarketEvent{
		ID:          uuid.New(),
		CoinSymbol:  strings.ToUpper(positional[0]),
		Category:    category,
		Description: positional[2],
		Sentiment:   *sentiment,
		ImpactScore: *impact,
		Source:      *source,
		URL:         *url,
		Timestamp:   when,
	}
	if err := repo.Insert(ctx, ev); err != nil {
		return err
	}

	fmt.Println("Event logged:")
	fmt.Printf("  ID:        %s\n", ev.ID)
	fmt.Printf("  Coin:      %s\n", ev.CoinSymbol)
	fmt.Printf("  Category:  %s\n", ev.Category)
	fmt.Printf("  Impact:    %.1f/10\n", ev.ImpactScore)
	fmt.Printf("  Sentiment: %s\n", ev.Sentiment)
	fmt.Printf("  Timestamp: %s\n", ev.Timestamp.Format(time.RFC3339))
	return nil
}

func runList(ctx context.Context, repo event.Repository, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 10, "maximum events to show")

	positional, flags := splitArgs(args)
	if err := fs.Parse(flags); err != nil {
		return err
	}

	coin := coinFilter(positional)
	events, err := repo.ListRecent(ctx, coin, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("Recent events (%d):\n\n", len(events))
	for _, ev := range events {
		fmt.Printf("[%s] %s - %s\n", ev.Timestamp.Format("2006-01-02 15:04"), ev.CoinSymbol, ev.Category)
		fmt.Printf("  %s\n", ev.Description)
		fmt.Printf("  Impact: %.1f/10, Sentiment: %s\n\n", ev.ImpactScore, ev.Sentiment)
	}
	return nil
}

func runStats(ctx context.Context, repo event.Repository, args []string) error {
	positional, _ := splitArgs(args)

	stats, err := repo.GetStats(ctx, coinFilter(positional))
	if err != nil {
		return err
	}

	fmt.Println("Event statistics:")
	fmt.Printf("  Total events:       %d\n", stats.TotalEvents)
	fmt.Printf("  Average impact:     %.1f/10\n", stats.AvgImpact)
	fmt.Printf("  High impact (7+):   %d\n", stats.HighImpactCount)
	fmt.Println("\nBy category:")
	for _, category := range event.Categories {
		if count := stats.ByCategory[category]; count > 0 {
			fmt.Printf("  %-20s %d\n", category, count)
		}
	}
	fmt.Println("\nBy sentiment:")
	for _, sentiment := range []string{"positive", "negative", "neutral"} {
		if count := stats.BySentiment[sentiment]; count > 0 {
			fmt.Printf("  %-20s %d\n", sentiment, count)
		}
	}
	return nil
}

// splitArgs separates positional arguments from -flag arguments so flags may
// follow positionals, the way the flag package alone does not allow.
func splitArgs(args []string) (positional, flags []string) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return positional, args[i:]
		}
		positional = append(positional, arg)
	}
	return positional, nil
}

// coinFilter maps the optional coin argument to the repository filter, where
// empty means all coins. ALL is accepted as an explicit wildcard.
func coinFilter(positional []string) string {
	if len(positional) == 0 {
		return ""
	}
	coin := strings.ToUpper(positional[0])
	if coin == "ALL" {
		return ""
	}
	return coin
}

func categoryList() string {
	names := make([]string, len(event.Categories))
	for i, category := range event.Categories {
		names[i] = string(category)
	}
	return strings.Join(names, ", ")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, usage, categoryList())
}
