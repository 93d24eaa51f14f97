package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"aliasc/internal/diag"
	"aliasc/internal/project"
	"aliasc/internal/source"
	"aliasc/internal/trace"
)

// DirResult — результат обработки одного файла каталога.
// Для файла, который не удалось прочитать, заполнены только Path и Bag.
type DirResult struct {
	Path string
	*BuildResult
	Bag *diag.Bag
}

// Failed reports whether the file produced any error diagnostics.
func (r DirResult) Failed() bool {
	return r.Bag.HasErrors()
}

// ListSources возвращает отсортированный список всех *.al файлов в директории
func ListSources(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, project.SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все *.al файлы в директории параллельно
func ParseDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []DirResult, error) {
	return runDir(ctx, dir, opts, jobs, stageParse)
}

// BuildDir собирает все *.al файлы в директории параллельно; IR каждого файла в его результате.
func BuildDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []DirResult, error) {
	return runDir(ctx, dir, opts, jobs, stageCodegen)
}

func runDir(ctx context.Context, dir string, opts Options, jobs int, until stage) (*source.FileSet, []DirResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "dir")
	span.WithExtra("dir", dir).WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")

	// FileSet заполняется последовательно до старта горутин, дальше только чтение
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for i, path := range files {
		opts.notifyProgress(ProgressEvent{Path: path, Index: i, Total: len(files), Status: ProgressQueued})
		fileID, loadErr := fileSet.Load(path)
		if loadErr != nil {
			loadErrors[path] = loadErr
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progress := func(st ProgressStatus) {
				opts.notifyProgress(ProgressEvent{Path: path, Index: i, Total: len(files), Status: st})
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(loadDiagnostic(loadErr))
				results[i] = DirResult{Path: path, Bag: bag}
				progress(ProgressFailed)
				return nil
			}

			progress(ProgressWorking)
			u := newUnit(gctx, fileSet, fileIDs[path], opts)
			if err := u.run(gctx, until); err != nil {
				return err
			}
			res := u.buildResult()
			results[i] = DirResult{Path: path, BuildResult: res, Bag: res.Bag}

			switch {
			case u.bag.HasErrors():
				progress(ProgressFailed)
			case u.cached:
				progress(ProgressCached)
			default:
				progress(ProgressDone)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeBags собирает диагностики всех файлов в один отсортированный Bag.
func MergeBags(results []DirResult, maxDiagnostics int) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		out.Merge(r.Bag)
	}
	out.Sort()
	return out
}
