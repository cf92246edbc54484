package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is a thin wrapper over the Sheets values API scoped to one
// spreadsheet. Row/column semantics live in the store adapter, not here.
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, spreadsheetID, credsPath string) (*Client, error) {
	b, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		srv:           srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Get fetches all rows in readRange (A1 notation).
func (c *Client) Get(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", readRange, err)
	}
	return resp.Values, nil
}

// BatchUpdate writes all given value ranges in one request; the API applies
// them atomically, which is what keeps a multi-cell patch all-or-nothing.
func (c *Client) BatchUpdate(ctx context.Context, data []*sheets.ValueRange) error {
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	_, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets batch update: %w", err)
	}
	return nil
}

// Append adds one row after the last data row of appendRange.
func (c *Client) Append(ctx context.Context, appendRange string, row []interface{}) error {
	val := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, val).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}

// DeleteRow removes the dimension at rowNumber (1-based, as rendered in the
// sheet UI). Later rows shift up, so callers must refetch afterwards.
func (c *Client) DeleteRow(ctx context.Context, sheetName string, rowNumber int) error {
	sheetID, err := c.sheetIDByName(ctx, sheetName)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(rowNumber - 1),
						EndIndex:   int64(rowNumber),
					},
				},
			},
		},
	}
	_, err = c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets delete row %d: %w", rowNumber, err)
	}
	return nil
}

func (c *Client) sheetIDByName(ctx context.Context, name string) (int64, error) {
	sp, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets get spreadsheet: %w", err)
	}
	for _, s := range sp.Sheets {
		if s.Properties.Title == name {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", name)
}
