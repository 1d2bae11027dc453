package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"

	"go.uber.org/zap"
)

// Strategy reads one file format into a dataset.
type Strategy func(path string) (*dataset.Dataset, error)

// Family groups extensions under a display label.
type Family struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// families lists the built-in formats in display order.
var families = []Family{
	{Name: "CSV / Text Files", Extensions: []string{".csv", ".txt", ".tsv"}},
	{Name: "Excel Files", Extensions: []string{".xlsx", ".xls", ".xlsm", ".xlsb", ".ods"}},
	{Name: "JSON Files", Extensions: []string{".json"}},
	{Name: "HTML Files", Extensions: []string{".html"}},
	{Name: "Parquet Files", Extensions: []string{".parquet"}},
	{Name: "Pickle Files", Extensions: []string{".pkl"}},
	{Name: "Stata Files", Extensions: []string{".dta"}},
	{Name: "SAS Files", Extensions: []string{".sas7bdat", ".xpt"}},
	{Name: "Feather Files", Extensions: []string{".feather"}},
}

// Families returns the built-in extension families.
func Families() []Family {
	out := make([]Family, len(families))
	for i, f := range families {
		out[i] = Family{Name: f.Name, Extensions: append([]string(nil), f.Extensions...)}
	}
	return out
}

// builtin maps each extension to its strategy.
func builtin() map[string]Strategy {
	return map[string]Strategy{
		".csv":      Delimited(','),
		".txt":      Delimited(','),
		".tsv":      Delimited('\t'),
		".xlsx":     LoadWorkbook,
		".xlsm":     LoadWorkbook,
		".xls":      LoadLegacyWorkbook,
		".xlsb":     LoadBinaryWorkbook,
		".ods":      LoadOpenDocument,
		".json":     LoadJSON,
		".html":     LoadHTML,
		".parquet":  LoadParquet,
		".feather":  LoadFeather,
		".pkl":      LoadPickle,
		".dta":      LoadStata,
		".sas7bdat": LoadSAS7BDAT,
		".xpt":      LoadXPORT,
	}
}

// Loader dispatches files to format strategies by extension.
type Loader struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithStrategy registers or overrides the strategy for ext.
func WithStrategy(ext string, s Strategy) Option {
	return func(ld *Loader) {
		ld.strategies[normalizeExt(ext)] = s
	}
}

// NewLoader creates a loader with every built-in format registered.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{
		strategies: builtin(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Register adds or replaces the strategy for ext.
func (l *Loader) Register(ext string, s Strategy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strategies[normalizeExt(ext)] = s
}

// Lookup returns the strategy registered for ext.
func (l *Loader) Lookup(ext string) (Strategy, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.strategies[normalizeExt(ext)]
	return s, ok
}

// Extensions returns every registered extension, sorted.
func (l *Loader) Extensions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	exts := make([]string, 0, len(l.strategies))
	for ext := range l.strategies {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether path has a registered extension.
func (l *Loader) Supports(path string) bool {
	_, ok := l.Lookup(filepath.Ext(path))
	return ok
}

// Load reads the file at path into a dataset.
func (l *Loader) Load(path string) (ds *dataset.Dataset, err error) {
	ext := normalizeExt(filepath.Ext(path))
	strategy, ok := l.Lookup(ext)
	if !ok {
		return nil, &errors.UnsupportedFormatError{Path: path, Extension: ext}
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, &errors.FileNotFoundError{Path: path, Err: statErr}
		}
		return nil, errors.NewLoadError(path, ext, statErr)
	}
	if info.IsDir() {
		return nil, errors.NewLoadError(path, ext, fmt.Errorf("%s is a directory", path))
	}

	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = errors.NewLoadError(path, ext, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			l.logger.Debug("Load failed",
				zap.String("path", path),
				zap.String("kind", errors.Kind(err)),
				zap.Error(err))
		}
	}()

	ds, err = strategy(path)
	if err != nil {
		if errors.IsCore(err) {
			return nil, err
		}
		return nil, errors.NewLoadError(path, ext, err)
	}
	if ds == nil {
		return nil, errors.NewLoadError(path, ext, fmt.Errorf("no data returned"))
	}

	ds.Name = filepath.Base(path)
	l.logger.Debug("Dataset loaded",
		zap.String("path", path),
		zap.String("format", ext),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumCols()))
	return ds, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var defaultLoader = NewLoader()

// Load reads path with the default loader.
func Load(path string) (*dataset.Dataset, error) {
	return defaultLoader.Load(path)
}

// Extensions lists the extensions supported by the default loader.
func Extensions() []string {
	return defaultLoader.Extensions()
}
