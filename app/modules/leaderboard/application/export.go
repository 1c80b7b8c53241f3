package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
	"github.com/xuri/excelize/v2"
)

// ExportHeader is the first row of an exported workbook.
var ExportHeader = []any{"Rank", "Player", "Name", "Score", "Submitted"}

// ExportWorkbook renders the leaderboard view as an XLSX workbook.
func (s *LeaderboardService) ExportWorkbook(ctx context.Context, q Query) ([]byte, error) {
	board, err := s.GetLeaderboard(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(board.Entries)
}

// BuildWorkbook writes entries to a single-sheet workbook under ExportHeader.
func BuildWorkbook(entries []leaderboarddomain.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	writeRow := func(row int, cells []any) error {
		axis, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, axis, &cells)
	}

	if err := writeRow(1, ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, e := range entries {
		cells := []any{e.Rank, e.PlayerID, e.Name, e.Score, e.CreatedAt.UTC().Format(time.RFC3339)}
		if err := writeRow(i+2, cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
