package event

import (
	"context"
	"fmt"

	"portal/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) StoreReceipt(ctx context.Context, event *entities.TicketIssued_v1) error {
	log.FromContext(ctx).Info("Storing ticket receipt")

	receiptHTML := `
		<html>
			<head>
				<title>Receipt</title>
			</head>
			<body>
				<h1>Ticket ` + event.TicketID.String() + `</h1>
				<p>Price: ` + event.Price.Amount + ` ` + event.Price.Currency + `</p>
				<p>Fee: ` + event.Fee.Amount + ` ` + event.Fee.Currency + `</p>
			</body>
		</html>
`

	receiptFile := event.TicketID.String() + "-receipt.html"

	url, err := h.documentStore.StoreDocument(ctx, receiptFile, receiptHTML)
	if err != nil {
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	return h.eventBus.Publish(ctx, entities.TicketReceiptStored_v1{
		Header:   entities.NewEventHeaderWithIdempotencyKey(event.Header.IdempotencyKey),
		TicketID: event.TicketID,
		FileName: receiptFile,
		FileURL:  url,
	})
}
