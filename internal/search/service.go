package search

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/nambininasafidison/AgriHub-sub001/internal/catalog"
	"github.com/nambininasafidison/AgriHub-sub001/internal/httpx"
)

var searchRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_search_requests_total",
		Help: "Product searches by outcome",
	},
	[]string{"outcome"},
)

// Page is one page of search results.
// swagger:model
type Page struct {
	Products      []catalog.Product `json:"products"`
	TotalProducts int64             `json:"totalProducts"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
	// Degraded is set when the store failed and the page is empty because
	// of it rather than because nothing matched.
	Degraded bool `json:"degraded,omitempty"`
}

type Service struct {
	store catalog.Store
	log   *logrus.Logger
}

func NewService(store catalog.Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Search runs s against the catalog. Store failures never propagate: they
// are logged and answered with an empty, degraded page.
func (svc *Service) Search(ctx context.Context, s State) Page {
	s = s.normalize()
	q := Translate(s)

	total, err := svc.store.Count(ctx, q.Criteria)
	if err != nil {
		return svc.degrade(ctx, s, err)
	}
	products, err := svc.store.Find(ctx, q)
	if err != nil {
		return svc.degrade(ctx, s, err)
	}
	if products == nil {
		products = []catalog.Product{}
	}

	outcome := "ok"
	if total == 0 {
		outcome = "empty"
	}
	searchRequests.WithLabelValues(outcome).Inc()

	return Page{
		Products:      products,
		TotalProducts: total,
		TotalPages:    TotalPages(total, PageSize),
		CurrentPage:   s.Page,
	}
}

func (svc *Service) degrade(ctx context.Context, s State, err error) Page {
	searchRequests.WithLabelValues("degraded").Inc()
	svc.log.WithError(err).WithFields(logrus.Fields{
		"rid":   httpx.RIDFromContext(ctx),
		"query": s.Encode(),
		"page":  s.Page,
	}).Error("[search] catalog store failed, serving empty page")
	return Page{
		Products:    []catalog.Product{},
		CurrentPage: s.Page,
		Degraded:    true,
	}
}
