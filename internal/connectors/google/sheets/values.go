package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

const defaultValueInputOption = "RAW"

type valuesInput struct {
	SpreadsheetID    string  `json:"spreadsheet_id"`
	RangeName        string  `json:"range_name"`
	Range            string  `json:"range"`
	Values           [][]any `json:"values"`
	ValueInputOption string  `json:"value_input_option"`
}

func (in *valuesInput) validate(details domain.Details) error {
	if in.SpreadsheetID == "" {
		in.SpreadsheetID = details.String("id", "")
	}
	if in.RangeName == "" {
		in.RangeName = in.Range
	}
	if in.SpreadsheetID == "" {
		return fmt.Errorf("%w: missing spreadsheet_id", domain.ErrInvalidInput)
	}
	if in.RangeName == "" {
		return fmt.Errorf("%w: missing range_name", domain.ErrInvalidInput)
	}
	return nil
}

// Values is the result of reading a range.
type Values struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// ReadValues reads an A1 range such as "Sheet1!A1:D10".
func (c *Client) ReadValues(ctx context.Context, details domain.Details) (any, error) {
	var in valuesInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if err := in.validate(details); err != nil {
		return nil, err
	}

	vr, err := google.Call(ctx, c.limiter, domain.ServiceSpreadsheet, "read values", func() (*sheets.ValueRange, error) {
		return c.svc.Spreadsheets.Values.Get(in.SpreadsheetID, in.RangeName).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	values := vr.Values
	if values == nil {
		values = [][]any{}
	}
	return Values{Range: vr.Range, Values: values}, nil
}

// WriteResult reports what a write changed.
type WriteResult struct {
	SpreadsheetID  string `json:"spreadsheet_id"`
	UpdatedRange   string `json:"updated_range"`
	UpdatedRows    int64  `json:"updated_rows"`
	UpdatedColumns int64  `json:"updated_columns"`
	UpdatedCells   int64  `json:"updated_cells"`
}

// WriteValues overwrites an A1 range with rows of values.
func (c *Client) WriteValues(ctx context.Context, details domain.Details) (any, error) {
	var in valuesInput
	if err := google.Decode(details, &in); err != nil {
		return nil, err
	}
	if err := in.validate(details); err != nil {
		return nil, err
	}
	if len(in.Values) == 0 {
		return nil, fmt.Errorf("%w: missing values", domain.ErrInvalidInput)
	}
	if in.ValueInputOption == "" {
		in.ValueInputOption = defaultValueInputOption
	}

	body := &sheets.ValueRange{Values: in.Values}
	resp, err := google.Call(ctx, c.limiter, domain.ServiceSpreadsheet, "write values",
		func() (*sheets.UpdateValuesResponse, error) {
			return c.svc.Spreadsheets.Values.Update(in.SpreadsheetID, in.RangeName, body).
				ValueInputOption(in.ValueInputOption).Context(ctx).Do()
		})
	if err != nil {
		return nil, err
	}

	return WriteResult{
		SpreadsheetID:  resp.SpreadsheetId,
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}
