package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/velora-labs/velora-backend/api/responses"
	"github.com/velora-labs/velora-backend/internal/orders"
	pkgerrors "github.com/velora-labs/velora-backend/pkg/errors"
	"github.com/velora-labs/velora-backend/pkg/logger"
	"github.com/velora-labs/velora-backend/pkg/types"
)

// CarrierWebhook ingests tracking callbacks from the shipping carrier. The
// payload is kept verbatim alongside the parsed fields so unknown statuses
// are still auditable.
func CarrierWebhook(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read webhook body"))
			return
		}

		var event orders.CarrierEvent
		if err := json.Unmarshal(body, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}
		if event.OrderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_number is required"))
			return
		}

		var raw types.JSONMap
		if err := json.Unmarshal(body, &raw); err == nil {
			event.Raw = raw
		}

		if err := svc.ProcessCarrierEvent(r.Context(), event); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"processed": true})
	}
}
