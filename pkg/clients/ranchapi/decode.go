package ranchapi

import (
	"bytes"
	"encoding/json"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// decodeCalves accepts either a bare JSON array or a {"calves": [...]} object.
func decodeCalves(body []byte) ([]models.Calf, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	if body[0] == '[' {
		var calves []models.Calf
		if err := json.Unmarshal(body, &calves); err != nil {
			return nil, err
		}
		return calves, nil
	}

	var envelope calvesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Calves, nil
}
