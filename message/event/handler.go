package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

// DocumentStore uploads rendered documents (receipts, KYC scans) and returns
// a public URL.
type DocumentStore interface {
	StoreDocument(ctx context.Context, name string, content string) (string, error)
}

type Handler struct {
	documentStore DocumentStore
	eventBus      *cqrs.EventBus
}

func NewHandler(documentStore DocumentStore, eventBus *cqrs.EventBus) Handler {
	if documentStore == nil {
		panic("missing documentStore")
	}
	if eventBus == nil {
		panic("missing eventBus")
	}
	return Handler{
		documentStore: documentStore,
		eventBus:      eventBus,
	}
}
