package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"aliasc/internal/ast"
	"aliasc/internal/diag"
	"aliasc/internal/project"
	"aliasc/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты сборки файлов по ключу содержимое+опции.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDecl — объявление без арены: значение хранится как литерал.
type CachedDecl struct {
	Name       string
	NameRange  source.Range
	Value      int32
	Text       string
	ValueRange source.Range
	Range      source.Range
}

type CachedNote struct {
	Range source.Range
	Msg   string
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  source.Range
	Notes    []CachedNote
}

// DiskPayload stores one built file: declarations, diagnostics and generated IR.
type DiskPayload struct {
	Schema uint16

	Name        string
	Path        string
	ContentHash project.Digest

	Decls       []CachedDecl
	Diagnostics []CachedDiagnostic
	IR          string

	// Status
	Broken bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens (creating if needed) a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a foreign schema is a miss, not an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим; новый создаётся сразу, чтобы Put продолжал работать
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey зависит от содержимого файла и всех опций, влияющих на результат.
func cacheKey(file *source.File, opts Options, moduleName string) project.Digest {
	return project.Combine(project.Digest(file.Hash), project.StringsDigest(
		strconv.Itoa(int(diskCacheSchemaVersion)),
		moduleName,
		opts.Grammar.String(),
		opts.Columns.String(),
		opts.TargetTriple,
		strconv.Itoa(int(opts.AddressSpace)),
	))
}

func (u *unit) restoreFromCache() bool {
	var payload DiskPayload
	ok, err := u.opts.Cache.Get(cacheKey(u.file, u.opts, u.moduleName()), &payload)
	if err != nil || !ok {
		return false
	}
	u.builder, u.module = payloadToModule(&payload)
	u.ir = payload.IR
	for _, cd := range payload.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), u.fileID, cd.Primary, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(n.Range, n.Msg)
		}
		u.bag.Add(d)
	}
	u.cached = true
	return true
}

func (u *unit) storeToCache() {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Name:        u.moduleName(),
		Path:        u.file.Path,
		ContentHash: project.Digest(u.file.Hash),
		IR:          u.ir,
		Broken:      u.bag.HasErrors(),
	}
	if u.module != nil {
		payload.Decls = moduleToCachedDecls(u.builder, u.module)
	}
	for _, d := range u.bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  d.Primary,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Range: n.Range, Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	// кэш — оптимизация: ошибка записи не ломает сборку
	if err := u.opts.Cache.Put(cacheKey(u.file, u.opts, u.moduleName()), payload); err != nil {
		u.span.WithExtra("cache-error", err.Error())
	}
}

func moduleToCachedDecls(b *ast.Builder, m *ast.Module) []CachedDecl {
	out := make([]CachedDecl, 0, len(m.Decls))
	for _, d := range m.Decls {
		cd := CachedDecl{Name: d.Name, NameRange: d.NameRange, Range: d.Range}
		if lit, ok := b.Exprs.IntLit(d.Value); ok {
			cd.Value = lit.Value
			cd.Text = lit.Text
			cd.ValueRange = b.Exprs.Get(d.Value).Range
		}
		out = append(out, cd)
	}
	return out
}

// payloadToModule восстанавливает арену и модуль; битый файл даёт (nil, nil).
func payloadToModule(p *DiskPayload) (*ast.Builder, *ast.Module) {
	if p.Broken && len(p.Decls) == 0 {
		return nil, nil
	}
	b := ast.NewBuilder(ast.Hints{Exprs: uint(len(p.Decls))})
	m := b.NewModule(p.Name)
	for _, cd := range p.Decls {
		value := b.Exprs.NewIntLit(cd.ValueRange, cd.Value, cd.Text)
		b.PushDecl(m, ast.Decl{Name: cd.Name, NameRange: cd.NameRange, Value: value, Range: cd.Range})
	}
	return b, m
}
