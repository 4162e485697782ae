// Package coordinator runs one customer request through the three
// specialists in a fixed order: inventory assessment, quoting, then per-item
// sale finalization. The coordinator itself is plain code; only the
// specialists talk to a model.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	toolx "github.com/beaverschoice/paperdesk/agent/tool"
	logx "github.com/beaverschoice/paperdesk/pkg/logger"
	"github.com/beaverschoice/paperdesk/quote"
)

// SessionFactory builds the request-scoped specialists and their Tracker.
type SessionFactory interface {
	NewSession(requestDate string) (contractx.Registry, *toolx.Tracker, error)
}

// Result is the outcome of one customer request. Fulfilled holds only sales
// proven by ledger commits; narrated success without a commit never lands
// here.
type Result struct {
	RequestID    string
	RequestDate  string
	Response     string
	Quote        *quote.Quote
	Fulfilled    []toolx.SaleCommit
	Unfulfilled  []string
	TotalCharged decimal.Decimal
}

type Coordinator struct {
	sessions SessionFactory
	quoter   *quote.Engine
	log      zerolog.Logger
}

func New(sessions SessionFactory, quoter *quote.Engine) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		quoter:   quoter,
		log:      logx.Component("coordinator"),
	}
}

var (
	taggedDatePattern = regexp.MustCompile(`Date of request:\s*(\d{4}-\d{2}-\d{2})`)
	bareDatePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// extractRequestDate pulls the business date out of the request text. The
// tagged form wins; a bare ISO date anywhere in the text is the fallback.
func extractRequestDate(request string) (string, bool) {
	if m := taggedDatePattern.FindStringSubmatch(request); m != nil {
		return m[1], true
	}
	if m := bareDatePattern.FindString(request); m != "" {
		return m, true
	}
	return "", false
}

// Handle processes one request end to end. Date extraction and inventory
// assessment are fatal when they fail; quoting and individual sales degrade
// into an apologetic but honest response instead.
func (c *Coordinator) Handle(ctx context.Context, request string) (Result, error) {
	result := Result{
		RequestID:    uuid.NewString(),
		TotalCharged: decimal.Zero,
	}
	log := c.log.With().Str("request_id", result.RequestID).Logger()

	date, ok := extractRequestDate(request)
	if !ok {
		result.Response = apologyResponse("we could not determine the date of your request")
		return result, fmt.Errorf("%w: no ISO date in request", contractx.ErrDateMissing)
	}
	result.RequestDate = date

	registry, tracker, err := c.sessions.NewSession(date)
	if err != nil {
		result.Response = apologyResponse("we could not process your request right now")
		return result, err
	}

	briefing := fmt.Sprintf("Customer request:\n%s\n\nDate of request: %s", request, date)

	report, err := c.assessInventory(ctx, registry, briefing)
	if err != nil {
		result.Response = apologyResponse("we could not assess our stock for your request")
		return result, err
	}
	log.Info().Int("findings", len(report.Findings)).Msg("inventory assessed")

	q, explanation := c.obtainQuote(ctx, registry, tracker, briefing, report, log)
	result.Quote = &q

	c.finalizeSales(ctx, registry, tracker, report, q, date, &result, log)

	result.Response = composeResponse(date, report, q, explanation, result)
	log.Info().
		Int("fulfilled", len(result.Fulfilled)).
		Int("unfulfilled", len(result.Unfulfilled)).
		Str("charged", result.TotalCharged.StringFixed(2)).
		Msg("request handled")
	return result, nil
}

// assessInventory runs the inventory specialist and parses its structured
// verdict. A reply that does not carry the JSON report is a schema
// violation.
func (c *Coordinator) assessInventory(ctx context.Context, registry contractx.Registry, briefing string) (contractx.InventoryReport, error) {
	reply, err := registry.Inventory().Run(ctx, briefing)
	if err != nil {
		return contractx.InventoryReport{}, err
	}
	return parseInventoryReport(reply)
}

func parseInventoryReport(reply string) (contractx.InventoryReport, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return contractx.InventoryReport{}, fmt.Errorf("%w: inventory reply carries no JSON report", contractx.ErrSchemaViolation)
	}

	var report contractx.InventoryReport
	if err := json.Unmarshal([]byte(reply[start:end+1]), &report); err != nil {
		return contractx.InventoryReport{}, fmt.Errorf("%w: inventory report: %v", contractx.ErrSchemaViolation, err)
	}
	if len(report.Findings) == 0 {
		return contractx.InventoryReport{}, fmt.Errorf("%w: inventory report has no findings", contractx.ErrSchemaViolation)
	}
	return report, nil
}

// obtainQuote runs the quoting specialist, then takes the priced quote from
// the tracker. The specialist's prose is only used as explanation text; if
// it never called calculate_quote, the coordinator prices the request
// itself.
func (c *Coordinator) obtainQuote(
	ctx context.Context,
	registry contractx.Registry,
	tracker *toolx.Tracker,
	briefing string,
	report contractx.InventoryReport,
	log zerolog.Logger,
) (quote.Quote, string) {
	task := briefing + "\n\nInventory findings:\n" + summarizeFindings(report)

	explanation := ""
	reply, err := registry.Quoting().Run(ctx, task)
	if err != nil {
		log.Warn().Err(err).Msg("quoting specialist failed, pricing directly")
	} else {
		explanation = strings.TrimSpace(reply)
	}

	if q, ok := tracker.Quote(); ok {
		return q, explanation
	}

	log.Warn().Msg("no quote artifact recorded, pricing directly")
	items := make([]quote.ItemRequest, 0, len(report.Findings))
	for _, f := range report.Findings {
		items = append(items, quote.ItemRequest{Name: f.RequestedName, Quantity: f.Requested})
	}
	return c.quoter.Calculate(items), explanation
}

// finalizeSales delegates each available line to the sales specialist and
// then verifies against the tracker. The specialist's reply text is never
// trusted: no ledger commit, no sale.
func (c *Coordinator) finalizeSales(
	ctx context.Context,
	registry contractx.Registry,
	tracker *toolx.Tracker,
	report contractx.InventoryReport,
	q quote.Quote,
	date string,
	result *Result,
	log zerolog.Logger,
) {
	for _, f := range report.Findings {
		if !f.Available || f.MatchedName == "" {
			result.Unfulfilled = append(result.Unfulfilled,
				fmt.Sprintf("%s (%d units): not available", f.RequestedName, f.Requested))
			continue
		}

		charge, ok := lineCharge(q, f.MatchedName)
		if !ok {
			result.Unfulfilled = append(result.Unfulfilled,
				fmt.Sprintf("%s (%d units): not priceable", f.RequestedName, f.Requested))
			continue
		}

		task := fmt.Sprintf(
			"Finalize this sale:\nitem: %s\nquantity: %d\ntotal_price: %s\ndate: %s",
			f.MatchedName, f.Requested, charge.StringFixed(2), date)
		if _, err := registry.Sales().Run(ctx, task); err != nil {
			log.Warn().Err(err).Str("item", f.MatchedName).Msg("sales specialist failed")
		}

		// Consume the commit so a single ledger row can never confirm two
		// lines that resolved to the same item.
		commit, committed := tracker.TakeSaleFor(f.MatchedName)
		if !committed {
			log.Warn().Str("item", f.MatchedName).Msg("no sale commit recorded, treating as unsold")
			result.Unfulfilled = append(result.Unfulfilled,
				fmt.Sprintf("%s (%d units): sale not completed", f.RequestedName, f.Requested))
			continue
		}

		result.Fulfilled = append(result.Fulfilled, commit)
		result.TotalCharged = result.TotalCharged.Add(commit.Amount)
	}
}

// lineCharge is a line's discounted share of the quote.
func lineCharge(q quote.Quote, matchedName string) (decimal.Decimal, bool) {
	for _, line := range q.Lines {
		if line.Resolved && line.MatchedName == matchedName {
			discounted := line.LineTotal.Mul(decimal.NewFromInt(1).Sub(q.DiscountRate))
			return discounted.Round(2), true
		}
	}
	return decimal.Decimal{}, false
}

func summarizeFindings(report contractx.InventoryReport) string {
	var b strings.Builder
	for _, f := range report.Findings {
		status := "unavailable"
		if f.Available {
			status = "available"
		}
		matched := f.MatchedName
		if matched == "" {
			matched = "no catalog match"
		}
		fmt.Fprintf(&b, "- %s (%d units) -> %s, %d in stock, %s\n",
			f.RequestedName, f.Requested, matched, f.InStock, status)
	}
	return strings.TrimRight(b.String(), "\n")
}
