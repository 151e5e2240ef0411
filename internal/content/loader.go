package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultModulesPerYear is the module count per year assumed when placing
// quizzes that carry no explicit year/module address.
const DefaultModulesPerYear = 7

const (
	catalogBase  = "curriculum"
	quizBankBase = "quizzes"
)

// ErrUnsupportedFormat is returned for content files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported content format")

//go:embed sample/*.json
var sampleFS embed.FS

// LoadOptions tunes how content is read.
type LoadOptions struct {
	// ModulesPerYear places unaddressed quizzes: entry i goes to
	// year i/ModulesPerYear+1, module i%ModulesPerYear.
	ModulesPerYear int
}

// DefaultLoadOptions returns the default LoadOptions.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{ModulesPerYear: DefaultModulesPerYear}
}

// Library is the content loaded once at startup. It is never mutated.
type Library struct {
	Catalog *Catalog
	Quizzes QuizBank
}

// Year looks up a year in the library's catalog.
func (l *Library) Year(number int) (*Year, bool) {
	return FindYear(l.Catalog, number)
}

// Module looks up a module in the library's catalog.
func (l *Library) Module(year, index int) (*Module, bool) {
	return FindModule(l.Catalog, year, index)
}

// Quiz looks up the quiz attached to a module.
func (l *Library) Quiz(year, index int) (*QuizDefinition, bool) {
	return FindQuiz(l.Quizzes, year, index)
}

// LoadDir reads curriculum.{json,yaml,yml} and quizzes.{json,yaml,yml} from dir.
// The quiz bank is optional; a missing file yields an empty bank.
func LoadDir(dir string, opts LoadOptions) (*Library, error) {
	catPath, err := findContentFile(dir, catalogBase)
	if err != nil {
		return nil, err
	}
	if catPath == "" {
		return nil, fmt.Errorf("no %s.json or %s.yaml in %s", catalogBase, catalogBase, dir)
	}
	cat, err := LoadCatalog(catPath)
	if err != nil {
		return nil, err
	}

	lib := &Library{Catalog: cat}

	quizPath, err := findContentFile(dir, quizBankBase)
	if err != nil {
		return nil, err
	}
	if quizPath != "" {
		bank, err := LoadQuizBank(quizPath, opts)
		if err != nil {
			return nil, err
		}
		lib.Quizzes = bank
	}

	lib.warnOrphanQuizzes()
	slog.Debug("content loaded", "dir", dir, "years", len(cat.Years),
		"modules", cat.TotalModules(), "quizzes", len(lib.Quizzes))
	return lib, nil
}

// LoadDefault returns the built-in sample library.
func LoadDefault(opts LoadOptions) (*Library, error) {
	catData, err := sampleFS.ReadFile("sample/" + catalogBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("read sample catalog: %w", err)
	}
	cat, err := ParseCatalog(catData, ".json")
	if err != nil {
		return nil, fmt.Errorf("sample catalog: %w", err)
	}

	quizData, err := sampleFS.ReadFile("sample/" + quizBankBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("read sample quizzes: %w", err)
	}
	bank, err := ParseQuizBank(quizData, ".json", opts)
	if err != nil {
		return nil, fmt.Errorf("sample quizzes: %w", err)
	}

	return &Library{Catalog: cat, Quizzes: bank}, nil
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := ParseCatalog(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadQuizBank reads and validates a quiz bank file.
func LoadQuizBank(path string, opts LoadOptions) (QuizBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz bank: %w", err)
	}
	bank, err := ParseQuizBank(data, filepath.Ext(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// ParseCatalog decodes a catalog document. ext selects the format
// (".json", ".yaml" or ".yml").
func ParseCatalog(data []byte, ext string) (*Catalog, error) {
	raw, err := toJSON(data, ext)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(CatalogSchema, raw); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := checkCatalog(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ParseQuizBank decodes a quiz bank document and assigns module addresses
// to quizzes that don't carry one.
func ParseQuizBank(data []byte, ext string, opts LoadOptions) (QuizBank, error) {
	raw, err := toJSON(data, ext)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(QuizBankSchema, raw); err != nil {
		return nil, err
	}

	var bank QuizBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("decode quiz bank: %w", err)
	}

	perYear := opts.ModulesPerYear
	if perYear <= 0 {
		perYear = DefaultModulesPerYear
	}
	for i := range bank {
		if bank[i].Year == 0 {
			bank[i].Year = i/perYear + 1
			bank[i].Module = i % perYear
		}
	}

	if err := checkQuizBank(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// toJSON normalizes a JSON or YAML document to JSON bytes.
func toJSON(data []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return data, nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// findContentFile returns the first existing base.{json,yaml,yml} in dir,
// or "" if none exists.
func findContentFile(dir, base string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		p := filepath.Join(dir, base+ext)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", nil
}

// warnOrphanQuizzes logs quizzes addressed to modules the catalog lacks.
func (l *Library) warnOrphanQuizzes() {
	for _, q := range l.Quizzes {
		if _, ok := FindModule(l.Catalog, q.Year, q.Module); !ok {
			slog.Warn("quiz has no matching module", "quiz", q.Name, "year", q.Year, "module", q.Module)
		}
	}
}

// RequireModule is Module with an ErrNotFound error for unknown addresses.
func (l *Library) RequireModule(year, index int) (*Module, error) {
	m, ok := l.Module(year, index)
	if !ok {
		return nil, fmt.Errorf("module %d-%d: %w", year, index, ErrNotFound)
	}
	return m, nil
}
