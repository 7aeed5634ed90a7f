package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tmorozova/daylist-server/internal/model"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError("Invalid request body")
	}
	return nil
}
