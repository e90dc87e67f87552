// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package icescan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"sync"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"

	"github.com/jayceslesar/icescan/internal"
	iceio "github.com/jayceslesar/icescan/io"
)

// allColumns is the column selection wildcard: selecting it projects the
// full file schema and keeps all statistics.
const allColumns = "*"

// statsColumns are the data file columns needed to evaluate a row filter
// against file statistics.
var statsColumns = map[string]struct{}{
	"value_counts":      {},
	"null_value_counts": {},
	"nan_value_counts":  {},
	"lower_bounds":      {},
	"upper_bounds":      {},
	"record_count":      {},
}

// ManifestReader reads the entries of a single avro manifest file,
// applying partition pruning, column statistics pruning, partition-set
// membership and row-id assignment while streaming.
//
// A reader is configured before iteration (Select/Project, the filter
// methods, CaseSensitive) and then iterated with Files. It is not safe
// for concurrent use; distinct readers may share only a ScanMetrics.
type ManifestReader struct {
	manifest ManifestFile
	fio      iceio.IO

	specsByID   map[int]PartitionSpec
	tableSchema *Schema
	firstRowID  *int64
	metrics     *ScanMetrics
	evalBuilder EvaluatorBuilder

	caseSensitive bool
	columns       []string
	projection    *Schema
	partFilter    BooleanExpression
	rowFilter     BooleanExpression
	partitionSet  *PartitionSet

	// spec and schema resolve lazily from the spec registry or the
	// container header, only when an evaluator needs them.
	spec        PartitionSpec
	schema      *Schema
	resolveOnce sync.Once
	resolveErr  error

	partEvalOnce    sync.Once
	partEval        PartitionEvaluatorFn
	partEvalErr     error
	metricsEvalOnce sync.Once
	metricsEval     MetricsEvaluatorFn
	metricsEvalErr  error

	closers []io.Closer
}

// ReaderOption configures a ManifestReader at construction.
type ReaderOption func(*ManifestReader)

// WithSpecsByID supplies the table's partition specs keyed by spec id
// together with the table schema they were defined against. When
// present, the manifest's spec and schema come from here and the
// container header metadata is never read.
func WithSpecsByID(specs map[int]PartitionSpec, schema *Schema) ReaderOption {
	return func(r *ManifestReader) {
		r.specsByID = specs
		r.tableSchema = schema
	}
}

// WithFirstRowID seeds row-id assignment: data files without a first
// row id are assigned one from a running counter starting at firstRowID.
// Only valid for data manifests.
func WithFirstRowID(firstRowID int64) ReaderOption {
	return func(r *ManifestReader) { r.firstRowID = &firstRowID }
}

// WithScanMetrics attaches counters incremented as entries are pruned.
func WithScanMetrics(metrics *ScanMetrics) ReaderOption {
	return func(r *ManifestReader) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// WithEvaluatorBuilder supplies the expression engine used to build
// partition and metrics evaluators. The default never prunes.
func WithEvaluatorBuilder(b EvaluatorBuilder) ReaderOption {
	return func(r *ManifestReader) {
		if b != nil {
			r.evalBuilder = b
		}
	}
}

// NewManifestReader creates a reader for the given manifest, loading
// bytes through fio.
func NewManifestReader(manifest ManifestFile, fio iceio.IO, opts ...ReaderOption) (*ManifestReader, error) {
	if manifest == nil {
		return nil, fmt.Errorf("%w: manifest cannot be nil", ErrInvalidArgument)
	}
	if fio == nil {
		return nil, fmt.Errorf("%w: file IO cannot be nil", ErrInvalidArgument)
	}

	r := &ManifestReader{
		manifest:      manifest,
		fio:           fio,
		metrics:       NoopMetrics(),
		evalBuilder:   matchAllEvaluators{},
		caseSensitive: true,
		partFilter:    AlwaysTrue{},
		rowFilter:     AlwaysTrue{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.firstRowID != nil && manifest.ManifestContent() != ManifestContentData {
		return nil, fmt.Errorf("%w: first row id is not valid for delete manifests", ErrInvalidArgument)
	}
	if r.specsByID != nil && r.tableSchema == nil {
		return nil, fmt.Errorf("%w: a spec registry requires the table schema", ErrInvalidArgument)
	}

	return r, nil
}

// Select restricts the columns decoded into each data file. Selecting
// "*" keeps every column. Select and Project are mutually exclusive:
// calling Select after Project fails and leaves the projection unchanged.
func (r *ManifestReader) Select(columns ...string) error {
	if r.projection != nil {
		return fmt.Errorf("%w: cannot select columns using both select() and project()", ErrInvalidState)
	}
	r.columns = slices.Clone(columns)

	return nil
}

// Project restricts decoded columns to those of the given schema.
// Calling Project after Select fails and leaves the selection unchanged.
func (r *ManifestReader) Project(schema *Schema) error {
	if r.columns != nil {
		return fmt.Errorf("%w: cannot project a schema using both select() and project()", ErrInvalidState)
	}
	r.projection = schema

	return nil
}

// FilterPartitions narrows the scan with an expression over partition
// values. Repeated calls AND the expressions together.
func (r *ManifestReader) FilterPartitions(expr BooleanExpression) *ManifestReader {
	r.partFilter = NewAnd(r.partFilter, expr)

	return r
}

// FilterRows narrows the scan with a row-level expression, evaluated
// against partition values and column statistics. Repeated calls AND
// the expressions together.
func (r *ManifestReader) FilterRows(expr BooleanExpression) *ManifestReader {
	r.rowFilter = NewAnd(r.rowFilter, expr)

	return r
}

// FilterPartitionSet keeps only entries whose (spec id, partition tuple)
// is a member of the set. Replaces any previously supplied set and is
// independent of the expression filters; an entry must pass both.
func (r *ManifestReader) FilterPartitionSet(set *PartitionSet) *ManifestReader {
	r.partitionSet = set

	return r
}

// CaseSensitive controls column name resolution for Select and for the
// evaluators. Readers are case sensitive by default.
func (r *ManifestReader) CaseSensitive(caseSensitive bool) *ManifestReader {
	r.caseSensitive = caseSensitive

	return r
}

// Schema returns the table schema the manifest was written with, from
// the spec registry if one was supplied, otherwise from the container
// header.
func (r *ManifestReader) Schema() (*Schema, error) {
	if err := r.resolve(); err != nil {
		return nil, err
	}

	return r.schema, nil
}

// PartitionSpec returns the partition spec used to write the manifest,
// from the spec registry if one was supplied, otherwise from the
// container header.
func (r *ManifestReader) PartitionSpec() (PartitionSpec, error) {
	if err := r.resolve(); err != nil {
		return PartitionSpec{}, err
	}

	return r.spec, nil
}

// resolve loads the table schema and partition spec once. With a spec
// registry both come from the caller and the container is not touched;
// otherwise only the header key/value metadata is read, no entries are
// materialized.
func (r *ManifestReader) resolve() error {
	r.resolveOnce.Do(func() {
		specID := int(r.manifest.PartitionSpecID())
		if r.specsByID != nil {
			spec, ok := r.specsByID[specID]
			if !ok {
				r.resolveErr = fmt.Errorf("%w: no partition spec with id %d", ErrInvalidArgument, specID)

				return
			}
			r.spec, r.schema = spec, r.tableSchema

			return
		}

		r.spec, r.schema, r.resolveErr = r.resolveFromHeader(specID)
	})

	return r.resolveErr
}

func (r *ManifestReader) resolveFromHeader(specID int) (spec PartitionSpec, _ *Schema, err error) {
	f, err := r.fio.Open(r.manifest.FilePath())
	if err != nil {
		return spec, nil, fmt.Errorf("%w: opening manifest %s: %w", ErrIO, r.manifest.FilePath(), err)
	}
	defer internal.CheckedClose(f, &err)

	dec, err := ocf.NewDecoder(f, ocf.WithDecoderSchemaCache(&avro.SchemaCache{}))
	if err != nil {
		return spec, nil, fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}
	meta := dec.Metadata()

	var schema Schema
	if err := json.Unmarshal(meta["schema"], &schema); err != nil {
		return spec, nil, fmt.Errorf("%w: 'schema' metadata is invalid: %s", ErrInvalidManifest, err)
	}
	if rawID, ok := meta["schema-id"]; ok {
		id, err := strconv.Atoi(string(rawID))
		if err != nil {
			return spec, nil, fmt.Errorf("%w: 'schema-id' metadata is invalid: %s", ErrInvalidManifest, err)
		}
		schema.ID = id
	}

	headerSpecID, err := strconv.Atoi(string(meta["partition-spec-id"]))
	if err != nil {
		return spec, nil, fmt.Errorf("%w: 'partition-spec-id' metadata is invalid: %s", ErrInvalidManifest, err)
	}
	if headerSpecID != specID {
		return spec, nil, fmt.Errorf("%w: 'partition-spec-id' metadata indicates %d, but manifest indicates %d",
			ErrInvalidManifest, headerSpecID, specID)
	}

	var fields []PartitionField
	if err := json.Unmarshal(meta["partition-spec"], &fields); err != nil {
		return spec, nil, fmt.Errorf("%w: 'partition-spec' metadata is invalid: %s", ErrInvalidManifest, err)
	}

	return NewPartitionSpecID(headerSpecID, fields...), &schema, nil
}

func (r *ManifestReader) partitionEvaluator() (PartitionEvaluatorFn, error) {
	r.partEvalOnce.Do(func() {
		if err := r.resolve(); err != nil {
			r.partEvalErr = err

			return
		}
		r.partEval, r.partEvalErr = r.evalBuilder.NewPartitionEvaluator(
			r.spec, r.schema, r.partFilter, r.rowFilter, r.caseSensitive)
	})

	return r.partEval, r.partEvalErr
}

func (r *ManifestReader) metricsEvaluator() (MetricsEvaluatorFn, error) {
	r.metricsEvalOnce.Do(func() {
		if err := r.resolve(); err != nil {
			r.metricsEvalErr = err

			return
		}
		r.metricsEval, r.metricsEvalErr = r.evalBuilder.NewMetricsEvaluator(
			r.schema, r.rowFilter, r.caseSensitive)
	})

	return r.metricsEval, r.metricsEvalErr
}

func (r *ManifestReader) hasFilters() bool {
	return r.partitionSet != nil ||
		r.rowFilter.Op() != OpTrue ||
		r.partFilter.Op() != OpTrue
}

func (r *ManifestReader) skippedCounter() Counter {
	if r.manifest.ManifestContent() == ManifestContentData {
		return r.metrics.SkippedDataFiles
	}

	return r.metrics.SkippedDeleteFiles
}

// requireStatsProjection reports whether the statistics columns must be
// widened into the projection so the metrics evaluator can see them.
func requireStatsProjection(rowFilter BooleanExpression, columns []string) bool {
	if rowFilter.Op() == OpTrue || columns == nil {
		return false
	}
	if slices.Contains(columns, allColumns) {
		return false
	}

	missing := false
	for col := range statsColumns {
		if !slices.Contains(columns, col) {
			missing = true

			break
		}
	}

	return missing
}

// withStatsColumns widens a column selection with the statistics columns.
// A wildcard selection is returned unchanged.
func withStatsColumns(columns []string) []string {
	if slices.Contains(columns, allColumns) {
		return columns
	}

	out := slices.Clone(columns)
	for col := range statsColumns {
		if !slices.Contains(out, col) {
			out = append(out, col)
		}
	}
	slices.Sort(out[len(columns):])

	return out
}

// dropStats reports whether the per-column statistics should be dropped
// from yielded files: they were only decoded for pruning when the
// selection requests none of them, or only record_count.
func dropStats(columns []string) bool {
	if columns == nil || slices.Contains(columns, allColumns) {
		return false
	}

	selected := make([]string, 0, len(statsColumns))
	for _, col := range columns {
		if _, ok := statsColumns[col]; ok && !slices.Contains(selected, col) {
			selected = append(selected, col)
		}
	}

	return len(selected) == 0 || (len(selected) == 1 && selected[0] == "record_count")
}

// projectedSchema computes the effective projection over the data file
// schema: the Select list, else the Project schema, else the full file
// schema, always widened with the forced columns (record_count,
// first_row_id and the _pos metadata column).
func (r *ManifestReader) projectedSchema() (*Schema, error) {
	if err := r.resolve(); err != nil {
		return nil, err
	}
	fileSchema := dataFileSchema(r.spec.PartitionType(r.schema))

	columns := r.columns
	if r.hasFilters() && requireStatsProjection(r.rowFilter, columns) {
		columns = withStatsColumns(columns)
	}

	var (
		projected *Schema
		err       error
	)
	switch {
	case columns != nil:
		if slices.Contains(columns, allColumns) {
			projected = fileSchema
		} else {
			// unknown names are ignored rather than failing the scan
			names := make([]string, 0, len(columns))
			for _, c := range columns {
				var ok bool
				if r.caseSensitive {
					_, ok = fileSchema.FindFieldByName(c)
				} else {
					_, ok = fileSchema.FindFieldByNameCaseInsensitive(c)
				}
				if ok {
					names = append(names, c)
				}
			}
			projected, err = fileSchema.Select(r.caseSensitive, names...)
			if err != nil {
				return nil, err
			}
		}
	case r.projection != nil:
		projected = r.projection
	default:
		projected = fileSchema
	}

	fields := projected.Fields()
	for _, forced := range []string{"record_count", "first_row_id"} {
		if _, ok := projected.FindFieldByName(forced); !ok {
			if f, ok := fileSchema.FindFieldByName(forced); ok {
				fields = append(fields, f)
			}
		}
	}
	if _, ok := projected.FindFieldByID(RowPositionFieldID); !ok {
		fields = append(fields, RowPosition())
	}
	if r.firstRowID != nil {
		if _, ok := projected.FindFieldByID(RowIDFieldID); !ok {
			fields = append(fields, RowID())
		}
	}

	return NewSchema(projected.ID, fields...), nil
}

// Projection returns the effective schema of the files the reader
// yields: the configured selection (or the full file schema) widened
// with the statistics columns when a row filter needs them, plus the
// forced physical and metadata columns.
func (r *ManifestReader) Projection() (*Schema, error) {
	return r.projectedSchema()
}

// dataFileSchema is the flat schema of the data_file record with the
// given partition struct, using the field ids reserved by the iceberg
// spec for manifest entries.
func dataFileSchema(partitionType *StructType) *Schema {
	return NewSchema(0,
		NestedField{ID: 134, Name: "content", Type: PrimitiveTypes.Int32, Required: true},
		NestedField{ID: 100, Name: "file_path", Type: PrimitiveTypes.String, Required: true},
		NestedField{ID: 101, Name: "file_format", Type: PrimitiveTypes.String, Required: true},
		NestedField{ID: 102, Name: "partition", Type: partitionType, Required: true},
		NestedField{ID: 103, Name: "record_count", Type: PrimitiveTypes.Int64, Required: true},
		NestedField{ID: 104, Name: "file_size_in_bytes", Type: PrimitiveTypes.Int64, Required: true},
		NestedField{ID: 108, Name: "column_sizes", Type: statsMapType(117, 118, PrimitiveTypes.Int64), Required: false},
		NestedField{ID: 109, Name: "value_counts", Type: statsMapType(119, 120, PrimitiveTypes.Int64), Required: false},
		NestedField{ID: 110, Name: "null_value_counts", Type: statsMapType(121, 122, PrimitiveTypes.Int64), Required: false},
		NestedField{ID: 137, Name: "nan_value_counts", Type: statsMapType(138, 139, PrimitiveTypes.Int64), Required: false},
		NestedField{ID: 125, Name: "lower_bounds", Type: statsMapType(126, 127, PrimitiveTypes.Binary), Required: false},
		NestedField{ID: 128, Name: "upper_bounds", Type: statsMapType(129, 130, PrimitiveTypes.Binary), Required: false},
		NestedField{ID: 131, Name: "key_metadata", Type: PrimitiveTypes.Binary, Required: false},
		NestedField{ID: 132, Name: "split_offsets", Type: &ListType{ElementID: 133, Element: PrimitiveTypes.Int64, ElementRequired: true}, Required: false},
		NestedField{ID: 135, Name: "equality_ids", Type: &ListType{ElementID: 136, Element: PrimitiveTypes.Int32, ElementRequired: true}, Required: false},
		NestedField{ID: 140, Name: "sort_order_id", Type: PrimitiveTypes.Int32, Required: false},
		NestedField{ID: 142, Name: "first_row_id", Type: PrimitiveTypes.Int64, Required: false},
		NestedField{ID: 143, Name: "referenced_data_file", Type: PrimitiveTypes.String, Required: false},
		NestedField{ID: 144, Name: "content_offset", Type: PrimitiveTypes.Int64, Required: false},
		NestedField{ID: 145, Name: "content_size_in_bytes", Type: PrimitiveTypes.Int64, Required: false},
	)
}

func statsMapType(keyID, valueID int, valueType Type) *MapType {
	return &MapType{
		KeyID: keyID, KeyType: PrimitiveTypes.Int32,
		ValueID: valueID, ValueType: valueType,
		ValueRequired: true,
	}
}

func getFieldIDMap(sc avro.Schema) (map[string]int, map[int]avro.LogicalType) {
	getField := func(rs *avro.RecordSchema, name string) *avro.Field {
		for _, f := range rs.Fields() {
			if f.Name() == name {
				return f
			}
		}

		return nil
	}

	result := make(map[string]int)
	logicalTypes := make(map[int]avro.LogicalType)
	entryField := getField(sc.(*avro.RecordSchema), "data_file")
	partitionField := getField(entryField.Type().(*avro.RecordSchema), "partition")

	for _, field := range partitionField.Type().(*avro.RecordSchema).Fields() {
		if fid, ok := field.Prop("field-id").(float64); ok {
			result[field.Name()] = int(fid)
			avroTyp := field.Type()
			if us, ok := avroTyp.(*avro.UnionSchema); ok {
				for _, t := range us.Types() {
					avroTyp = t
				}
			}
			if ps, ok := avroTyp.(*avro.PrimitiveSchema); ok && ps.Logical() != nil {
				logicalTypes[int(fid)] = ps.Logical().Type()
			}
		}
	}

	return result, logicalTypes
}

// entryDecoder is one streaming pass over the manifest's entries.
type entryDecoder struct {
	dec           *ocf.Decoder
	manifest      ManifestFile
	isFallback    bool
	fieldNameToID map[string]int
	fieldIDToType map[int]avro.LogicalType
	assignRowID   func(ManifestEntry)
}

// open validates the container header against the manifest and starts a
// streaming decode. The underlying file is registered with the reader's
// closeable group.
func (r *ManifestReader) open() (*entryDecoder, error) {
	format, err := FormatFromLocation(r.manifest.FilePath())
	if err != nil {
		return nil, err
	}
	if format != AvroFile {
		return nil, fmt.Errorf("%w: manifest %s is not an avro file (%s)",
			ErrInvalidArgument, r.manifest.FilePath(), format)
	}

	if r.columns != nil || r.projection != nil {
		if _, err := r.projectedSchema(); err != nil {
			return nil, err
		}
	}

	f, err := r.fio.Open(r.manifest.FilePath())
	if err != nil {
		return nil, fmt.Errorf("%w: opening manifest %s: %w", ErrIO, r.manifest.FilePath(), err)
	}
	r.closers = append(r.closers, f)

	dec, err := ocf.NewDecoder(f, ocf.WithDecoderSchemaCache(&avro.SchemaCache{}))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}

	metadata := dec.Metadata()
	sc := dec.Schema()

	formatVersion, err := strconv.Atoi(string(metadata["format-version"]))
	if err != nil {
		return nil, fmt.Errorf("%w: 'format-version' metadata is invalid: %s", ErrInvalidManifest, err)
	}
	if formatVersion != r.manifest.Version() {
		return nil, fmt.Errorf("%w: 'format-version' metadata indicates version %d, but manifest indicates version %d",
			ErrInvalidManifest, formatVersion, r.manifest.Version())
	}

	var content ManifestContent
	switch contentStr := string(metadata["content"]); contentStr {
	case "data":
		content = ManifestContentData
	case "deletes":
		content = ManifestContentDeletes
	default:
		return nil, fmt.Errorf("%w: 'content' metadata should be \"data\" or \"deletes\" but is %q",
			ErrInvalidManifest, contentStr)
	}
	if content != r.manifest.ManifestContent() {
		return nil, fmt.Errorf("%w: 'content' metadata indicates %q, but manifest indicates %q",
			ErrInvalidManifest, content, r.manifest.ManifestContent())
	}

	isFallback := false
	if formatVersion == 1 {
		for _, f := range sc.(*avro.RecordSchema).Fields() {
			if f.Name() == "snapshot_id" {
				if f.Type().Type() != avro.Union {
					isFallback = true
				}

				break
			}
		}
	}
	fieldNameToID, fieldIDToType := getFieldIDMap(sc)

	return &entryDecoder{
		dec:           dec,
		manifest:      r.manifest,
		isFallback:    isFallback,
		fieldNameToID: fieldNameToID,
		fieldIDToType: fieldIDToType,
		assignRowID:   r.idAssigner(),
	}, nil
}

// next decodes the next entry, applies the inherited manifest metadata
// and the row-id assigner. Returns io.EOF when the stream is exhausted.
func (d *entryDecoder) next() (ManifestEntry, error) {
	if err := d.dec.Error(); err != nil {
		return nil, fmt.Errorf("%w: reading manifest entries: %w", ErrIO, err)
	}
	if !d.dec.HasNext() {
		// a short or corrupt block surfaces here, not as a Decode error
		if err := d.dec.Error(); err != nil {
			return nil, fmt.Errorf("%w: reading manifest entries: %w", ErrIO, err)
		}

		return nil, io.EOF
	}

	var tmp ManifestEntry
	if d.isFallback {
		tmp = &fallbackManifestEntry{
			manifestEntry: manifestEntry{Data: &dataFile{}},
		}
	} else {
		tmp = &manifestEntry{Data: &dataFile{}}
	}

	if err := d.dec.Decode(tmp); err != nil {
		return nil, fmt.Errorf("%w: decoding manifest entry: %w", ErrIO, err)
	}
	if d.isFallback {
		tmp = tmp.(*fallbackManifestEntry).toEntry()
	}
	tmp.inherit(d.manifest)

	df := tmp.DataFile().(*dataFile)
	df.setFieldNameToIDMap(d.fieldNameToID)
	df.setFieldIDToLogicalTypeMap(d.fieldIDToType)

	d.assignRowID(tmp)

	return tmp, nil
}

// idAssigner returns the per-pass row-id hook. Seeded readers hand out
// ids from a running counter to data files that do not already carry
// one; assigning advances the counter by the file's record count while
// preset ids are kept and consume no counter space. Unseeded readers
// clear any stored first row id so stale values never leak downstream.
func (r *ManifestReader) idAssigner() func(ManifestEntry) {
	if r.firstRowID != nil {
		nextRowID := *r.firstRowID

		return func(e ManifestEntry) {
			df := e.DataFile()
			if e.Status() == EntryStatusDELETED || df.ContentType() != EntryContentData {
				return
			}
			if df.FirstRowID() == nil {
				id := nextRowID
				df.setFirstRowID(&id)
				nextRowID += df.Count()
			}
		}
	}

	return func(e ManifestEntry) {
		if e.DataFile().ContentType() == EntryContentData {
			e.DataFile().setFirstRowID(nil)
		}
	}
}

// entries streams the manifest's entries. Each call starts a fresh
// decode pass with the reader's current configuration. When onlyLive is
// true, DELETED entries are dropped before any predicate runs, so they
// are never counted as skipped.
func (r *ManifestReader) entries(onlyLive bool) iter.Seq2[ManifestEntry, error] {
	if !r.hasFilters() {
		return func(yield func(ManifestEntry, error) bool) {
			d, err := r.open()
			if err != nil {
				yield(nil, err)

				return
			}
			for {
				entry, err := d.next()
				if err != nil {
					if !errors.Is(err, io.EOF) {
						yield(nil, err)
					}

					return
				}
				if onlyLive && entry.Status() == EntryStatusDELETED {
					continue
				}
				if !yield(entry, nil) {
					return
				}
			}
		}
	}

	return func(yield func(ManifestEntry, error) bool) {
		partEval, err := r.partitionEvaluator()
		if err != nil {
			yield(nil, err)

			return
		}
		metricsEval, err := r.metricsEvaluator()
		if err != nil {
			yield(nil, err)

			return
		}
		skipped := r.skippedCounter()

		d, err := r.open()
		if err != nil {
			yield(nil, err)

			return
		}

		for {
			entry, err := d.next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(nil, err)
				}

				return
			}
			if onlyLive && entry.Status() == EntryStatusDELETED {
				continue
			}

			keep, err := r.evalEntry(entry, partEval, metricsEval)
			if err != nil {
				yield(nil, err)

				return
			}
			if !keep {
				skipped.Incr()

				continue
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// evalEntry is the predicate applied on the filtered path. A nil entry
// never matches; the unfiltered path has no such check and forwards
// entries as decoded.
func (r *ManifestReader) evalEntry(entry ManifestEntry, partEval PartitionEvaluatorFn, metricsEval MetricsEvaluatorFn) (bool, error) {
	if entry == nil {
		return false, nil
	}
	df := entry.DataFile()

	match, err := partEval(df.Partition())
	if err != nil || !match {
		return false, err
	}
	if match, err = metricsEval(df); err != nil || !match {
		return false, err
	}
	if r.partitionSet != nil && !r.partitionSet.Contains(int(df.SpecID()), df.Partition()) {
		return false, nil
	}

	return true, nil
}

// Files streams the live data files of the manifest that survive
// pruning. Each yielded DataFile is a defensive copy; per-column
// statistics are dropped when the configured selection does not need
// them. The sequence can be ranged over more than once; every range
// performs a fresh pass over the file.
func (r *ManifestReader) Files() iter.Seq2[DataFile, error] {
	withStats := !dropStats(r.columns)

	return func(yield func(DataFile, error) bool) {
		for entry, err := range r.entries(true) {
			if err != nil {
				yield(nil, err)

				return
			}
			if !yield(entry.DataFile().(*dataFile).copy(withStats), nil) {
				return
			}
		}
	}
}

// Close releases every resource the reader opened. It may be called
// before, during or after iteration and may be called more than once;
// each resource is closed exactly once. Close errors are aggregated.
func (r *ManifestReader) Close() error {
	closers := r.closers
	r.closers = nil

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
