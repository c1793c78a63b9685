// Package export projects the successful items of a collection into the
// downloadable artifacts: a zip of renamed files, a keyword table (CSV or
// Parquet), a YAML review manifest and the clipboard name list.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// Entry is one file of the renamed-images archive
type Entry struct {
	FileName string
	Data     []byte
}

// Row is one line of the keyword table
type Row struct {
	FileName string   `parquet:"file_name" yaml:"file_name"`
	Keywords []string `parquet:"keywords,list" yaml:"keywords"`
}

// JoinedKeywords returns the keywords as one comma separated cell
func (r Row) JoinedKeywords() string {
	return strings.Join(r.Keywords, ", ")
}

// ArchiveEntries returns the successful items, in collection order, as
// final file name plus payload
func ArchiveEntries(items []models.Item) []Entry {
	var entries []Entry
	for _, item := range items {
		if !item.Successful() {
			continue
		}
		entries = append(entries, Entry{FileName: item.FileName(), Data: item.Data})
	}
	return entries
}

// KeywordRows returns the successful items sorted by name. The extension
// only breaks ties between equal names.
func KeywordRows(items []models.Item) []Row {
	var successful []models.Item
	for _, item := range items {
		if item.Successful() {
			successful = append(successful, item)
		}
	}
	sort.SliceStable(successful, func(i, j int) bool {
		if successful[i].Name != successful[j].Name {
			return successful[i].Name < successful[j].Name
		}
		return successful[i].Ext < successful[j].Ext
	})

	rows := make([]Row, 0, len(successful))
	for _, item := range successful {
		rows = append(rows, Row{
			FileName: item.FileName(),
			Keywords: append([]string{}, item.Keywords...),
		})
	}
	return rows
}

// ClipboardText is the comma separated list of suggested names, without extensions
func ClipboardText(items []models.Item) string {
	var names []string
	for _, item := range items {
		if item.Successful() {
			names = append(names, item.Name)
		}
	}
	return strings.Join(names, ", ")
}

// WriteZip packages entries into one zip archive. Two entries with the same
// file name are kept apart by a numeric suffix before the extension.
func WriteZip(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	used := make(map[string]int, len(entries))

	for _, entry := range entries {
		name := uniqueName(entry.FileName, used)
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func uniqueName(name string, used map[string]int) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		n++
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, taken := used[candidate]; !taken {
			used[candidate] = 1
			used[name] = n
			return candidate
		}
	}
}

// ZipName, CSVName, ParquetName and ManifestName build the artifact file names
func ZipName(now time.Time) string {
	return fmt.Sprintf("renamed-images-%d.zip", now.UnixMilli())
}

func CSVName(now time.Time) string {
	return fmt.Sprintf("image_keywords_%d.csv", now.UnixMilli())
}

func ParquetName(now time.Time) string {
	return fmt.Sprintf("image_keywords_%d.parquet", now.UnixMilli())
}

func ManifestName(now time.Time) string {
	return fmt.Sprintf("image_manifest_%d.yaml", now.UnixMilli())
}
