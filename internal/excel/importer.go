package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// insertBatchSize bounds the rows of a single insert statement
const insertBatchSize = 500

// Format of an import file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks the format by file extension
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", name)
	}
}

// Store is the part of the word store used by imports
type Store interface {
	GetByLevel(ctx context.Context, level models.Level) ([]models.Word, error)
	Insert(ctx context.Context, words []models.Word) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	SheetName         string // Sheet to import, first sheet when empty
	WordColumn        string // Column with the English word
	TranslationColumn string // Column with the translation
	LevelColumn       string // Column with the level
	DefaultLevel      models.Level
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		LevelColumn:       "C",
		DefaultLevel:      models.Beginner,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer loads word lists into the word store
type Importer struct {
	store  Store
	config ImportConfig
}

// NewImporter creates an importer
func NewImporter(store Store, config ImportConfig) *Importer {
	if !config.DefaultLevel.IsValid() {
		config.DefaultLevel = models.Beginner
	}
	return &Importer{store: store, config: config}
}

// ImportFile imports words from a CSV or Excel file on disk
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file (path: %s): %w", path, err)
	}
	defer file.Close()

	return i.Import(ctx, file, format)
}

// Import reads words in the given format and stores the new ones
func (i *Importer) Import(ctx context.Context, r io.Reader, format Format) (*ImportResult, error) {
	var (
		rows []row
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r, i.config.DefaultLevel)
	case FormatXLSX:
		rows, err = readExcel(r, i.config)
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	return i.save(ctx, rows)
}

// row is one parsed line of an import file
type row struct {
	num         int
	word        string
	translation string
	level       models.Level
	err         error
}

func readExcel(r io.Reader, config ImportConfig) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows (sheet: %s): %w", sheet, err)
	}

	var rows []row
	for idx, cell := range cells {
		word := cellValue(cell, config.WordColumn)
		if word == "" || isHeader(word) {
			continue
		}

		parsed := row{
			num:         idx + 1,
			word:        cleanWord(word),
			translation: cleanWord(cellValue(cell, config.TranslationColumn)),
			level:       config.DefaultLevel,
		}
		if raw := cellValue(cell, config.LevelColumn); raw != "" {
			level, ok := levelFromName(raw)
			if !ok {
				parsed.err = fmt.Errorf("unknown level %q", raw)
			}
			parsed.level = level
		}
		rows = append(rows, parsed)
	}
	return rows, nil
}

// readCSV parses "english,transcription,translation" rows. A row holding only a
// level name switches the level of the rows that follow it; other single-cell
// rows are category titles and are ignored.
func readCSV(r io.Reader, level models.Level) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows []row
	num := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV (row: %d): %w", num+1, err)
		}
		num++

		first := strings.Trim(strings.TrimSpace(firstField(record)), "\"")
		if first == "" || isHeader(first) {
			continue
		}
		if len(record) < 2 || strings.TrimSpace(strings.Join(record[1:], "")) == "" {
			if l, ok := levelFromName(first); ok {
				level = l
			}
			continue
		}

		parsed := row{num: num, word: cleanWord(first), level: level}
		if len(record) > 2 {
			parsed.translation = cleanWord(record[2])
		} else {
			parsed.translation = cleanWord(record[1])
		}
		rows = append(rows, parsed)
	}
	return rows, nil
}

// save validates parsed rows, drops duplicates by word and level and inserts the
// rest
func (i *Importer) save(ctx context.Context, rows []row) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}
	known := make(map[models.Level]map[string]bool)
	var words []models.Word

	for _, r := range rows {
		result.TotalProcessed++

		if err := r.validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", r.num, err))
			continue
		}

		seen, ok := known[r.level]
		if !ok {
			existing, err := i.store.GetByLevel(ctx, r.level)
			if err != nil {
				return nil, fmt.Errorf("get existing words (level: %s): %w", r.level, err)
			}
			seen = make(map[string]bool, len(existing))
			for _, w := range existing {
				seen[strings.ToLower(w.TargetText)] = true
			}
			known[r.level] = seen
		}

		key := strings.ToLower(r.word)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		words = append(words, models.Word{
			ID:         uuid.NewString(),
			SourceText: r.translation,
			TargetText: r.word,
			Level:      r.level,
		})
	}

	for start := 0; start < len(words); start += insertBatchSize {
		end := min(start+insertBatchSize, len(words))
		if err := i.store.Insert(ctx, words[start:end]); err != nil {
			return nil, fmt.Errorf("insert imported words (count: %d): %w", end-start, err)
		}
		result.Created += end - start
	}
	return result, nil
}

func (r row) validate() error {
	if r.err != nil {
		return r.err
	}
	if r.word == "" {
		return errors.New("word cannot be empty")
	}
	if r.translation == "" {
		return errors.New("translation cannot be empty")
	}
	return nil
}

func firstField(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return record[0]
}

func cellValue(cells []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func isHeader(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "english", "word", "слово":
		return true
	}
	return false
}

func levelFromName(s string) (models.Level, bool) {
	level := models.Level(strings.ToUpper(strings.TrimSpace(s)))
	return level, level.IsValid()
}

// cleanWord drops the parenthesised part of a word, as in "go (went, gone)"
func cleanWord(word string) string {
	if idx := strings.Index(word, "("); idx > 0 {
		return strings.TrimSpace(word[:idx])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
