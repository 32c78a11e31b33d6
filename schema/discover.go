package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects raw rows and classifies every column as a chart field.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify role (dimension, measure, skip)
//   3. Pattern matching → detect temporal strings (Jan-2026, Q1-2026, ...)
//   4. Functional dependencies → detect parent dimensions
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override (otherwise inferred)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV classifies the columns of CSV data with a header row.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	return build(headers, rows, opt, "CSV"), nil
}

// DiscoverFromRows classifies already-split tabular data, such as a
// spreadsheet sheet. source is recorded in DiscoveredFrom.
func DiscoverFromRows(headers []string, rows [][]string, source string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%s has no columns", source)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no data rows", source)
	}
	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}
	return build(headers, rows, opt, source), nil
}

// DiscoverFromRecords classifies the keys of in-memory records. Columns are
// the union of all keys, sorted; values are compared in their string form.
func DiscoverFromRecords(records []engine.Record, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records")
	}
	if opt.SampleSize > 0 && len(records) > opt.SampleSize {
		records = records[:opt.SampleSize]
	}

	headers, rows := recordRows(records)
	if len(headers) == 0 {
		return nil, fmt.Errorf("records have no keys")
	}
	return build(headers, rows, opt, "records"), nil
}

// NumericKeys returns the numeric columns of records, in key order. Unlike
// discovery it ignores cardinality, so distinct integers such as counts
// are kept; only keys named like identifiers ("id", "*_id") are left out.
func NumericKeys(records []engine.Record) []string {
	headers, rows := recordRows(records)
	var keys []string
	for i, h := range headers {
		if isIDName(h) {
			continue
		}
		col := analyzeColumn(h, i, rows, len(rows))
		if col.colType == typeNumeric && !col.isTemporal {
			keys = append(keys, h)
		}
	}
	return keys
}

// recordRows flattens records into sorted headers (the union of all keys)
// and string rows.
func recordRows(records []engine.Record) ([]string, [][]string) {
	seen := make(map[string]bool)
	var headers []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = scale.AsString(r[h])
		}
		rows[i] = row
	}
	return headers, rows
}

func isIDName(key string) bool {
	k := toSnakeCase(key)
	return k == "id" || strings.HasSuffix(k, "_id")
}

func build(headers []string, rows [][]string, opt DiscoverOptions, source string) *Config {
	// 3. Analyze each column
	columns := make([]columnAnalysis, len(headers))
	for i, header := range headers {
		columns[i] = analyzeColumn(header, i, rows, len(rows))
	}

	// 4. Apply recovery overrides
	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	config := &Config{
		Name: opt.Name,
		Rows: len(rows),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	var fields []Field
	var skipped []SkippedColumn
	for i := range columns {
		col := &columns[i]
		recovered := recoverSet[strings.ToLower(col.header)] || recoverSet[toSnakeCase(col.header)]

		switch col.role {
		case roleDimension, roleMeasure:
			fields = append(fields, col.toField())
		case roleSkipped:
			if recovered && col.recoverable {
				col.role = roleDimension
				fields = append(fields, col.toField())
				continue
			}
			skipped = append(skipped, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	// 5. Detect hierarchies
	detectHierarchies(fields, rows, columns)

	config.Fields = fields
	config.SkippedColumns = skipped
	config.DiscoveredFrom = source
	config.DiscoveredAt = time.Now().Format(time.RFC3339)
	return config
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	index       int
	colType     columnType
	role        columnRole
	skipReason  string
	recoverable bool

	// Stats
	uniqueCount int
	totalCount  int
	nullCount   int
	sampleVals  []string

	// Special type detection
	isTemporal      bool
	temporalFormat  string
	hasDecimals     bool
	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string, totalRows int) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		index:      index,
		totalCount: totalRows,
	}

	// Collect values
	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNull(val) {
			col.nullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		col.recoverable = false
		return col
	}

	// Collect sample values (up to 10, sorted)
	col.sampleVals = collectSamples(uniqueSet, 10)

	// Step 1: Detect type
	col.colType = detectType(values)

	// Decimals signal continuous data → measure
	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	// Step 2: Detect temporal strings before role classification
	switch col.colType {
	case typeString:
		col.isTemporal, col.temporalFormat = detectTemporalPattern(col.sampleVals)
	case typeDate:
		col.isTemporal = true
	}

	// Step 3: Classify role based on type + cardinality
	col.classifyRole(totalRows)

	// Step 4: Set cardinality hint
	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	return col
}

func isNull(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a", "NaN":
		return true
	}
	return false
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {

	case typeNumeric:
		if col.uniqueCount == totalRows && totalRows > 10 && !col.hasDecimals {
			// Every value a distinct integer → likely an ID
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an ID column"
			col.recoverable = true
			return
		}
		// Continuous data is always a measure
		if col.hasDecimals {
			col.role = roleMeasure
			return
		}
		// Few unique values at a low ratio → coded dimension (e.g., priority 1-5)
		uniqueRatio := float64(col.uniqueCount) / float64(totalRows)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.role = roleDimension
			return
		}
		col.role = roleMeasure

	case typeDate:
		col.role = roleDimension
		col.isTemporal = true

	case typeBool:
		col.role = roleDimension

	case typeString:
		if col.uniqueCount == totalRows && totalRows > 10 && !col.isTemporal {
			// Every value unique → likely an ID or free text
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			col.recoverable = true
			return
		}
		if col.uniqueCount > totalRows/2 && col.uniqueCount > 50 && !col.isTemporal {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.uniqueCount)
			col.recoverable = true
			return
		}
		col.role = roleDimension
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount := 0
	dateCount := 0
	boolCount := 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	if boolCount >= threshold && numCount < len(values) {
		return typeBool
	}
	if dateCount >= threshold {
		return typeDate
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

// ============================================================================
// TEMPORAL PATTERN DETECTION
// ============================================================================

var monthPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"},  // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},           // 2026-01
	{regexp.MustCompile(`^Q[1-4]-\d{4}$`), "QN-yyyy"},          // Q1-2026
	{regexp.MustCompile(`^Q[1-4]\s+\d{4}$`), "QN yyyy"},        // Q1 2026
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), "MMMM yyyy"},   // January 2026
}

// detectTemporalPattern checks if values match known month/quarter patterns.
func detectTemporalPattern(samples []string) (bool, string) {
	if len(samples) == 0 {
		return false, ""
	}
	for _, pattern := range monthPatterns {
		matches := 0
		for _, s := range samples {
			if pattern.re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true, pattern.format
		}
	}
	return false, ""
}

// ============================================================================
// HIERARCHY DETECTION
// ============================================================================

// detectHierarchies finds parent/child relationships between dimensions.
// If every value of dimension B maps to exactly one value of dimension A,
// and A has fewer unique values, then A is parent of B.
// When multiple valid parents exist, picks the closest (highest cardinality).
func detectHierarchies(fields []Field, rows [][]string, columns []columnAnalysis) {
	dimIndices := make(map[string]int) // key → column index
	dimUniques := make(map[string]int) // key → unique count
	for _, col := range columns {
		if col.role == roleDimension {
			dimIndices[col.header] = col.index
			dimUniques[col.header] = col.uniqueCount
		}
	}

	for i := range fields {
		childKey := fields[i].Key
		childIdx, ok := dimIndices[childKey]
		if !ok {
			continue
		}

		bestParent := ""
		bestParentUniques := 0
		for j := range fields {
			if i == j {
				continue
			}
			parentKey := fields[j].Key
			parentIdx, ok := dimIndices[parentKey]
			if !ok {
				continue
			}
			// Parent must have fewer unique values than child
			if dimUniques[parentKey] >= dimUniques[childKey] {
				continue
			}

			childToParent := make(map[string]string)
			isHierarchy := true
			for _, row := range rows {
				if childIdx >= len(row) || parentIdx >= len(row) {
					continue
				}
				child := strings.TrimSpace(row[childIdx])
				parent := strings.TrimSpace(row[parentIdx])
				if child == "" || parent == "" {
					continue
				}
				if existing, ok := childToParent[child]; ok {
					if existing != parent {
						isHierarchy = false
						break
					}
				} else {
					childToParent[child] = parent
				}
			}

			if isHierarchy && len(childToParent) > 1 && dimUniques[parentKey] > bestParentUniques {
				bestParent = parentKey
				bestParentUniques = dimUniques[parentKey]
			}
		}
		fields[i].Parent = bestParent
	}
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

// toField converts a column analysis into a Field.
func (col *columnAnalysis) toField() Field {
	f := Field{
		Key:             col.header,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		Unique:          col.uniqueCount,
		Nulls:           col.nullCount,
		TemporalFormat:  col.temporalFormat,
		CardinalityHint: col.cardinalityHint,
		Role:            RoleDimension,
	}
	if col.role == roleMeasure {
		f.Role = RoleMeasure
	}
	switch {
	case col.isTemporal:
		f.Kind = KindTemporal
	case col.colType == typeNumeric:
		f.Kind = KindNumeric
	case col.colType == typeBool:
		f.Kind = KindBoolean
	default:
		f.Kind = KindCategorical
	}
	return f
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
