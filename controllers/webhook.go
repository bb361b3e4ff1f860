package controllers

import (
	"luckyspin/helpers"
	"luckyspin/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// webhookPayload covers the reference field of every supported gateway's
// event shape; only the first non-empty one is used.
type webhookPayload struct {
	Data struct {
		Reference string `json:"reference"`
		TxRef     string `json:"tx_ref"`
	} `json:"data"`
	EventData struct {
		PaymentReference string `json:"paymentReference"`
		Reference        string `json:"reference"`
	} `json:"eventData"`
	Reference string `json:"reference"`
}

func (p *webhookPayload) reference() string {
	for _, ref := range []string{
		p.Data.Reference,
		p.Data.TxRef,
		p.EventData.PaymentReference,
		p.EventData.Reference,
		p.Reference,
	} {
		if ref != "" {
			return ref
		}
	}
	return ""
}

// PaymentWebhook takes a gateway callback as a hint and re-verifies the
// payment with the gateway's API before moving any money. The payload itself
// is never trusted, so no per-gateway signature scheme is needed here.
func PaymentWebhook(c *fiber.Ctx) error {
	gateway := c.Params("gateway")

	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	reference := payload.reference()
	if reference == "" {
		return helpers.JSONError(c, "PAYMENT_REFERENCE_REQUIRED")
	}

	if err := walletSvc.ReconcileReference(c.Context(), reference); err != nil {
		logger.Log.Warn("webhook reconciliation failed",
			zap.String("gateway", gateway),
			zap.String("reference", reference),
			zap.Error(err),
		)
		// 200 regardless: gateways hammer failing webhooks, and the
		// reconciler job will pick the payment up anyway.
	}
	return helpers.JSONSuccess(c, "ok", nil)
}
