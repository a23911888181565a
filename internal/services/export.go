package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/senyabanana/licitaciones/internal/logger"
	"github.com/senyabanana/licitaciones/internal/models"
)

const (
	exportBatchSize  = models.MaxPageSize
	exportMaxBatches = 100
)

var exportHeader = []string{
	"ID",
	"Proyecto",
	"Organismo",
	"CPV",
	"Descripción CPV",
	"Territorio",
	"Fecha Límite",
	"Importe",
	"Enlace",
}

// ExportFilename возвращает имя файла выгрузки на указанную дату.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("licitaciones-%s.csv", now.Format("2006-01-02"))
}

// ExportCSV пишет в w все подходящие под фильтр тендеры пакетами по 200
// строк, но не более 100 пакетов. Возвращает количество строк.
func (s *LicitacionService) ExportCSV(ctx context.Context, f models.Filter, order *models.OrderBy, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	count := 0
	for page := 0; page < exportMaxBatches; page++ {
		result, err := s.fetch(ctx, models.PageRequest{
			Page:     page,
			PageSize: exportBatchSize,
			Filter:   f,
			OrderBy:  order,
		})
		if err != nil {
			return count, err
		}

		for _, row := range result.Rows {
			if err := cw.Write(exportRecord(row)); err != nil {
				return count, fmt.Errorf("failed to write csv row: %w", err)
			}
			count++
		}

		if !result.HasMore {
			cw.Flush()
			return count, cw.Error()
		}
	}

	logger.FromContext(ctx, s.Logger).Warn().
		Int("rows", count).
		Msg("csv export reached batch limit")
	cw.Flush()
	return count, cw.Error()
}

func exportRecord(row models.EnrichedLicitacion) []string {
	var closing, amount string
	if row.ClosingDate != nil {
		closing = row.ClosingDate.Format("2006-01-02")
	}
	if row.Amount != nil {
		amount = strconv.FormatFloat(*row.Amount, 'f', 2, 64)
	}
	return []string{
		row.ID,
		row.ProjectName,
		models.StringValue(row.ContractingParty),
		models.StringValue(row.CPVCode),
		row.CPVDescription,
		models.StringValue(row.NUTSCode),
		closing,
		amount,
		models.StringValue(row.NoticeURL),
	}
}
