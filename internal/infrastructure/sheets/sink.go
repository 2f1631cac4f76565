// Package sheets appends verification records to a Google Sheets worksheet
// using a service account. It is the default system of record; when it can't
// be initialised the bot keeps running and the orchestrator surfaces every
// failed append to the audit channel instead.
package sheets

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Sink writes one row per accepted verification. Append-only: rows are
// never updated or deleted by this system.
type Sink struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
}

// NewSink builds the Sheets client from service-account JSON (plain or
// base64) and makes sure the configured worksheet tab exists.
func NewSink(ctx context.Context, cfg *config.Config) (*Sink, error) {
	creds := cfg.GoogleCredentials
	if creds == "" && cfg.GoogleCredsB64 != "" {
		raw, err := base64.StdEncoding.DecodeString(cfg.GoogleCredsB64)
		if err != nil {
			return nil, fmt.Errorf("decode GOOGLE_CREDENTIALS_B64: %w", err)
		}
		creds = string(raw)
	}
	if cfg.SheetID == "" || creds == "" {
		return nil, fmt.Errorf("sheet id or credentials missing: %w", domain.ErrUnavailable)
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON([]byte(creds)),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	s := &Sink{svc: svc, spreadsheetID: cfg.SheetID, worksheet: cfg.Worksheet}
	if err := s.ensureWorksheet(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureWorksheet creates the configured tab when the spreadsheet doesn't
// have it yet. Safe to call on every startup.
func (s *Sink) ensureWorksheet(ctx context.Context) error {
	sp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("open spreadsheet: %w", err)
	}
	for _, sh := range sp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.worksheet {
			return nil
		}
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title:          s.worksheet,
					GridProperties: &sheetsapi.GridProperties{RowCount: 1000, ColumnCount: 10},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", s.worksheet, err)
	}
	return nil
}

// Append writes the record as one RAW row at the bottom of the worksheet.
func (s *Sink) Append(ctx context.Context, rec *domain.VerificationRecord) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{rowValues(rec)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.worksheet+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// rowValues fixes the column order of the worksheet. Changing it breaks
// every sheet already in production.
func rowValues(rec *domain.VerificationRecord) []interface{} {
	return []interface{}{
		rec.Timestamp,
		rec.CommunityID,
		rec.CommunityName,
		rec.ParticipantID,
		rec.ParticipantName,
		rec.PlayerID,
		string(rec.Source),
	}
}
