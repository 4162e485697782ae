package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/beaverschoice/paperdesk/agent/coordinator"
	agentllm "github.com/beaverschoice/paperdesk/agent/llm"
	"github.com/beaverschoice/paperdesk/agent/roles"
	"github.com/beaverschoice/paperdesk/bootstrap"
	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/ledger"
	configx "github.com/beaverschoice/paperdesk/pkg/config"
	llmx "github.com/beaverschoice/paperdesk/pkg/llm"
	_ "github.com/beaverschoice/paperdesk/pkg/logger/autoload"
	"github.com/beaverschoice/paperdesk/quote"
)

type AppConfig struct {
	DatabasePath string `envconfig:"DATABASE_PATH" split_words:"true" default:"paperdesk.db"`
	RequestsCSV  string `envconfig:"REQUESTS_CSV" split_words:"true" default:"data/quote_requests_sample.csv"`
	ResultsCSV   string `envconfig:"RESULTS_CSV" split_words:"true" default:"results.csv"`
}

type customerRequest struct {
	text string
	date time.Time
}

// requestOutcome pairs a coordinator result with the company position right
// after it, mirroring the columns of the results log.
type requestOutcome struct {
	coordinator.Result

	cash           string
	inventoryValue string
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[agentllm.Config]("LLM")

	client := llmx.NewClient(llmCfg.ClientConfig())
	if client == nil {
		log.Fatal().Msg("chat client not configured, set LLM_API_KEY")
	}

	store, err := ledger.Open(appCfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open ledger")
	}
	defer store.Close()

	if err := bootstrap.Seed(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}

	matcher := catalog.NewMatcher()
	engine := ledger.NewEngine(store)
	quoter := quote.NewEngine(matcher)
	services := roles.Services{
		Engine:   engine,
		Commands: ledger.NewCommands(store, matcher),
		Matcher:  matcher,
		History:  quote.NewHistory(store.DB()),
		Quoter:   quoter,
	}

	factory, err := roles.NewFactory(client, *llmCfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("build role factory")
	}
	coord := coordinator.New(factory, quoter)

	requests, err := readRequests(appCfg.RequestsCSV)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.RequestsCSV).Msg("read requests")
	}
	log.Info().Int("requests", len(requests)).Msg("processing customer requests")

	results := make([]requestOutcome, 0, len(requests))
	var lastDate string
	for i, req := range requests {
		isoDate := req.date.Format("2006-01-02")
		task := fmt.Sprintf("%s (Date of request: %s)", req.text, isoDate)

		result, err := coord.Handle(ctx, task)
		if err != nil {
			log.Error().Err(err).Int("request", i+1).Msg("request failed")
		}
		lastDate = isoDate

		outcome := requestOutcome{Result: result}
		if report, err := engine.FinancialReport(ctx, isoDate); err != nil {
			log.Error().Err(err).Int("request", i+1).Msg("position snapshot failed")
		} else {
			outcome.cash = report.Cash.StringFixed(2)
			outcome.inventoryValue = report.InventoryValue.StringFixed(2)
		}
		results = append(results, outcome)

		log.Info().
			Int("request", i+1).
			Str("date", isoDate).
			Int("fulfilled", len(result.Fulfilled)).
			Str("charged", result.TotalCharged.StringFixed(2)).
			Str("cash", outcome.cash).
			Msg("request processed")
	}

	if err := writeResults(appCfg.ResultsCSV, results); err != nil {
		log.Fatal().Err(err).Msg("write results")
	}

	if lastDate != "" {
		report, err := engine.FinancialReport(ctx, lastDate)
		if err != nil {
			log.Error().Err(err).Msg("final report")
			return
		}
		log.Info().
			Str("as_of", report.AsOf).
			Str("cash", report.Cash.StringFixed(2)).
			Str("inventory_value", report.InventoryValue.StringFixed(2)).
			Str("total_assets", report.TotalAssets.StringFixed(2)).
			Msg("final financial position")
	}
}

// readRequests loads the request CSV and returns the rows in chronological
// order. The file carries request_date in m/d/yy form.
func readRequests(path string) ([]customerRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no request rows in %s", path)
	}

	header := rows[0]
	textCol, dateCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "request":
			textCol = i
		case "request_date":
			dateCol = i
		}
	}
	if textCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("missing request/request_date columns in %s", path)
	}

	requests := make([]customerRequest, 0, len(rows)-1)
	for i, row := range rows[1:] {
		date, err := time.Parse("1/2/06", strings.TrimSpace(row[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad request_date %q: %w", i+2, row[dateCol], err)
		}
		requests = append(requests, customerRequest{
			text: strings.TrimSpace(row[textCol]),
			date: date,
		})
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].date.Before(requests[j].date)
	})
	return requests, nil
}

func writeResults(path string, results []requestOutcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"request_id", "request_date", "total_charged", "items_fulfilled",
		"cash_balance", "inventory_value", "response",
	}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.RequestID,
			r.RequestDate,
			r.TotalCharged.StringFixed(2),
			strconv.Itoa(len(r.Fulfilled)),
			r.cash,
			r.inventoryValue,
			r.Response,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
