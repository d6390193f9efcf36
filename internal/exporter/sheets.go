package exporter

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"reel-radar/internal/config"
	"reel-radar/internal/models"
	"reel-radar/internal/scoring"
)

// SheetsExporter writes ranked records to a Google Sheets worksheet.
type SheetsExporter struct {
	service *sheets.Service
	cfg     config.SheetsConfig
}

// NewSheetsExporter creates a Sheets exporter authenticated with the
// configured service account file.
func NewSheetsExporter(ctx context.Context, cfg config.SheetsConfig) (*SheetsExporter, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsExporter{service: service, cfg: cfg}, nil
}

// Export writes the records into the configured worksheet, creating the
// spreadsheet and/or worksheet as needed, and returns the spreadsheet URL.
func (e *SheetsExporter) Export(ctx context.Context, records []*models.ContentRecord, mode scoring.Mode) (string, error) {
	spreadsheetID := e.cfg.SpreadsheetID
	var spreadsheetURL string

	if spreadsheetID == "" {
		created, err := e.service.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{Title: e.cfg.SpreadsheetName},
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{Title: e.cfg.WorksheetName}},
			},
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("create spreadsheet: %w", err)
		}
		spreadsheetID = created.SpreadsheetId
		spreadsheetURL = created.SpreadsheetUrl
		log.Printf("Created new spreadsheet: %s", e.cfg.SpreadsheetName)
	} else {
		spreadsheet, err := e.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
		}
		spreadsheetURL = spreadsheet.SpreadsheetUrl
		log.Printf("Opened existing spreadsheet: %s", spreadsheet.Properties.Title)

		if err := e.ensureWorksheet(ctx, spreadsheet); err != nil {
			return "", err
		}

		clearRange := fmt.Sprintf("%s!A:Z", e.cfg.WorksheetName)
		if _, err := e.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("clear worksheet %s: %w", e.cfg.WorksheetName, err)
		}
	}

	headers := Headers(mode)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	values := append([][]interface{}{headerRow}, Rows(records, mode, sheetsCaptionLimit)...)

	updateRange := fmt.Sprintf("%s!A1", e.cfg.WorksheetName)
	_, err := e.service.Spreadsheets.Values.Update(spreadsheetID, updateRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update worksheet %s: %w", e.cfg.WorksheetName, err)
	}

	log.Printf("Exported %d records to Google Sheets: %s", len(records), spreadsheetURL)
	return spreadsheetURL, nil
}

// ensureWorksheet adds the configured worksheet when the spreadsheet lacks it.
func (e *SheetsExporter) ensureWorksheet(ctx context.Context, spreadsheet *sheets.Spreadsheet) error {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == e.cfg.WorksheetName {
			return nil
		}
	}

	_, err := e.service.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: e.cfg.WorksheetName},
			}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheet %s: %w", e.cfg.WorksheetName, err)
	}
	return nil
}
