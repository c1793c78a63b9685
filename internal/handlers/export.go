package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/export"
	"github.com/lehigh-university-libraries/tagger/internal/models"
)

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	items := session.Items.Snapshot()
	format := r.PathValue("format")
	now := time.Now()

	switch format {
	case "zip", "csv", "parquet", "yaml", "clipboard":
	default:
		h.writeError(w, "Unknown export format: "+format, http.StatusNotFound)
		return
	}
	if format != "yaml" && models.CountItems(items).Exportable == 0 {
		h.writeError(w, "No successful items to export", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	var err error
	var filename, contentType string

	switch format {
	case "zip":
		filename, contentType = export.ZipName(now), "application/zip"
		err = export.WriteZip(&buf, export.ArchiveEntries(items))
	case "csv":
		filename, contentType = export.CSVName(now), "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, export.KeywordRows(items))
	case "parquet":
		filename, contentType = export.ParquetName(now), "application/vnd.apache.parquet"
		err = export.WriteParquet(&buf, export.KeywordRows(items))
	case "yaml":
		wordLimit, vocabulary := session.Settings()
		provider := h.tagger.Provider()
		filename, contentType = export.ManifestName(now), "application/yaml"
		err = export.WriteManifest(&buf, export.Meta{
			Provider:   provider.Name(),
			Model:      provider.Model(),
			WordLimit:  wordLimit,
			Vocabulary: vocabulary,
			Generated:  now,
		}, items)
	case "clipboard":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(export.ClipboardText(items)))
		return
	}

	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}
