package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

func TestClient_ReadValues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.PathValue("id"))
		assert.Equal(t, "Sheet1!A1:B2", r.PathValue("range"))
		writeJSON(t, w, map[string]any{
			"range":  "Sheet1!A1:B2",
			"values": [][]any{{"name", "total"}, {"rent", 1200}},
		})
	})
	client := newTestClient(t, mux)

	got, err := client.ReadValues(context.Background(), domain.Details{
		"spreadsheet_id": "s1",
		"range_name":     "Sheet1!A1:B2",
	})

	require.NoError(t, err)
	values := got.(Values)
	assert.Equal(t, "Sheet1!A1:B2", values.Range)
	require.Len(t, values.Values, 2)
	assert.Equal(t, "rent", values.Values[1][0])
}

func TestClient_ReadValues_EmptyRange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"range": "Sheet1!Z1:Z2"})
	})
	client := newTestClient(t, mux)

	got, err := client.ReadValues(context.Background(), domain.Details{"id": "s1", "range": "Sheet1!Z1:Z2"})

	require.NoError(t, err)
	assert.NotNil(t, got.(Values).Values)
	assert.Empty(t, got.(Values).Values)
}

func TestClient_WriteValues(t *testing.T) {
	var body sheets.ValueRange
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, map[string]any{
			"spreadsheetId":  "s1",
			"updatedRange":   "Sheet1!A1:B1",
			"updatedRows":    1,
			"updatedColumns": 2,
			"updatedCells":   2,
		})
	})
	client := newTestClient(t, mux)

	got, err := client.WriteValues(context.Background(), domain.Details{
		"spreadsheet_id": "s1",
		"range_name":     "Sheet1!A1:B1",
		"values":         []any{[]any{"a", float64(1)}},
	})

	require.NoError(t, err)
	assert.Equal(t, WriteResult{
		SpreadsheetID:  "s1",
		UpdatedRange:   "Sheet1!A1:B1",
		UpdatedRows:    1,
		UpdatedColumns: 2,
		UpdatedCells:   2,
	}, got)
	assert.Equal(t, [][]any{{"a", float64(1)}}, body.Values)
}

func TestClient_Values_Validation(t *testing.T) {
	client := New(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		fn      func(context.Context, domain.Details) (any, error)
		details domain.Details
	}{
		{"read without id", client.ReadValues, domain.Details{"range_name": "A1"}},
		{"read without range", client.ReadValues, domain.Details{"spreadsheet_id": "s"}},
		{"write without values", client.WriteValues, domain.Details{"spreadsheet_id": "s", "range_name": "A1"}},
		{"write with empty values", client.WriteValues, domain.Details{"spreadsheet_id": "s", "range_name": "A1", "values": []any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(ctx, tt.details)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
