package backend

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okito/dashboard/internal/rpc"
)

// Seed shapes the generated data. Generation is deterministic for a given
// seed and start time.
type Seed struct {
	EventsPerProject int
	Source           uint64
}

// seedPrices are the catalog of checkout amounts, in whole currency units.
var seedPrices = []string{"4.99", "12.50", "25", "49.90", "120", "0.75", "1999.99"}

var seedStatuses = []rpc.PaymentStatus{
	rpc.PaymentConfirmed,
	rpc.PaymentConfirmed,
	rpc.PaymentConfirmed,
	rpc.PaymentPending,
	rpc.PaymentFailed,
	rpc.PaymentTimedOut,
}

var seedCurrencies = []rpc.Currency{rpc.CurrencyUSDC, rpc.CurrencyUSDT}

type seedProject struct {
	id          string
	name        string
	description string
	environment string
}

var seedProjects = []seedProject{
	{id: "proj_storefront", name: "Storefront", description: "Checkout for the online store", environment: "live"},
	{id: "proj_sandbox", name: "Sandbox", description: "Integration testing", environment: "test"},
}

// microUnits converts a decimal amount to integer micro-units.
func microUnits(amount string) int64 {
	return decimal.RequireFromString(amount).Shift(6).IntPart()
}

func (seed Seed) build(now time.Time) []*projectRecord {
	count := seed.EventsPerProject
	if count < 0 {
		count = 0
	}
	rng := rand.New(rand.NewPCG(seed.Source, 0x6f6b69746f))
	records := make([]*projectRecord, 0, len(seedProjects))
	for p, project := range seedProjects {
		created := now.AddDate(0, -3, -p*7).Truncate(time.Hour)
		record := &projectRecord{
			details: rpc.ProjectDetails{
				ID:          project.id,
				Name:        project.name,
				Description: project.description,
				Environment: project.environment,
				CreatedAt:   created,
			},
		}
		for i := range count {
			// Newest first, spread over roughly the last 60 days.
			at := now.Add(-time.Duration(i) * 30 * time.Hour).Add(-time.Duration(rng.IntN(3600)) * time.Second)
			event := rpc.Event{
				ID:        fmt.Sprintf("evt_%s_%04d", project.id[len("proj_"):], count-i),
				SessionID: fmt.Sprintf("cs_%08x", rng.Uint32()),
				CreatedAt: at,
				Type:      rpc.EventTypePayment,
				Metadata: map[string]any{
					"orderId":  fmt.Sprintf("ORD-%05d", 10000+count-i),
					"customer": fmt.Sprintf("customer-%d", rng.IntN(40)+1),
				},
				Payment: &rpc.PaymentInfo{
					Status:   seedStatuses[rng.IntN(len(seedStatuses))],
					Amount:   microUnits(seedPrices[rng.IntN(len(seedPrices))]),
					Currency: seedCurrencies[rng.IntN(len(seedCurrencies))],
				},
			}
			record.events = append(record.events, event)
		}
		record.tokens = seedTokens(project, created, rng)
		record.webhooks = seedWebhooks(project, created)
		records = append(records, record)
	}
	return records
}

func seedTokens(project seedProject, created time.Time, rng *rand.Rand) []rpc.APIToken {
	statuses := []string{"active", "active", "revoked"}
	tokens := make([]rpc.APIToken, 0, 12)
	for i := range 12 {
		token := rpc.APIToken{
			ID:          fmt.Sprintf("tok_%s_%02d", project.id[len("proj_"):], i+1),
			Prefix:      fmt.Sprintf("ok_%s_%04x", project.environment, rng.IntN(0xffff)),
			Environment: project.environment,
			Status:      statuses[i%len(statuses)],
			CreatedAt:   created.Add(time.Duration(i) * 49 * time.Hour),
		}
		if token.Status == "active" {
			token.LastUsedAt = token.CreatedAt.Add(time.Duration(rng.IntN(500)+1) * time.Hour)
			token.RequestCount = int64(rng.IntN(25000))
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func seedWebhooks(project seedProject, created time.Time) []rpc.Webhook {
	return []rpc.Webhook{
		{
			ID:          "wh_" + project.id[len("proj_"):] + "_orders",
			URL:         "https://example.com/hooks/orders",
			Description: "Order fulfillment",
			Status:      "active",
			CreatedAt:   created.Add(2 * time.Hour),
			LastUsedAt:  created.Add(72 * time.Hour),
		},
		{
			ID:          "wh_" + project.id[len("proj_"):] + "_ledger",
			URL:         "https://example.com/hooks/ledger",
			Description: "Accounting ledger sync",
			Status:      "disabled",
			CreatedAt:   created.Add(26 * time.Hour),
		},
	}
}
