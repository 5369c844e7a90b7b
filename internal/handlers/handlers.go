package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"xtradata/internal/money"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// valueToString flattens the loosely typed values store maps carry
// (drivers may scan text columns as []byte).
func valueToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// valueToMoney renders a minor-unit column as a 2dp decimal string.
func valueToMoney(value any) string {
	return money.FormatMinor(money.ValueToInt64(value))
}
