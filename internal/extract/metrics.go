package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var documentsExtracted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "summark_documents_extracted_total",
		Help: "Documents produced by the extraction pipeline, labeled by text kind.",
	},
	[]string{"kind"},
)
