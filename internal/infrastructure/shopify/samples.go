package shopify

import (
	"context"
	"fmt"
	"math/rand/v2"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/integration"
)

// DefaultSampleCount is how many products a populate request creates
const DefaultSampleCount = 5

var sampleAdjectives = []string{
	"autumn", "hidden", "bitter", "misty", "silent", "empty", "dry", "dark",
	"summer", "icy", "delicate", "quiet", "white", "cool", "spring", "winter",
	"patient", "twilight", "dawn", "crimson", "wispy", "weathered", "blue",
	"billowing", "broken", "cold", "damp", "falling", "frosty", "green", "long",
}

var sampleNouns = []string{
	"waterfall", "river", "breeze", "moon", "rain", "wind", "sea", "morning",
	"snow", "lake", "sunset", "pine", "shadow", "leaf", "dawn", "glitter",
	"forest", "hill", "cloud", "meadow", "sun", "glade", "bird", "brook",
	"butterfly", "bush", "dew", "dust", "field", "fire", "flower",
}

// sampleTitle builds a title such as "misty river"
func sampleTitle(r *rand.Rand) string {
	return sampleAdjectives[r.IntN(len(sampleAdjectives))] + " " + sampleNouns[r.IntN(len(sampleNouns))]
}

// samplePrice returns a price between 1.00 and 100.00
func samplePrice(r *rand.Rand) decimal.Decimal {
	return decimal.New(int64(100+r.IntN(9901)), -2)
}

// CreateSampleProducts creates count demo products. A non-positive count
// falls back to DefaultSampleCount.
func (a *Adapter) CreateSampleProducts(ctx context.Context, count int) ([]integration.SampleProduct, error) {
	if count <= 0 {
		count = DefaultSampleCount
	}
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	created := make([]integration.SampleProduct, 0, count)
	for i := 0; i < count; i++ {
		title := sampleTitle(r)
		price := samplePrice(r)
		product, err := a.rest.Product.Create(ctx, goshopify.Product{
			Title:  title,
			Status: goshopify.ProductStatusDraft,
			Variants: []goshopify.Variant{
				{Price: &price},
			},
		})
		if err != nil {
			return created, fmt.Errorf("create sample %d of %d: %w", i+1, count, mapRESTError(err))
		}
		created = append(created, integration.SampleProduct{
			ID:    product.Id,
			Title: product.Title,
			Price: price,
		})
	}
	a.logger.Info("Sample products created", zap.Int("count", len(created)))
	return created, nil
}
