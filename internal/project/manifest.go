package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// SourceExt — расширение исходников.
const SourceExt = ".al"

const NoManifestMessage = "no " + ManifestName + " found\nplease specify the source explicitly, e.g.:\n  aliasc build path/to/main.al"

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig — секция [build]; пустые значения означают умолчания CLI.
type BuildConfig struct {
	Main    string `toml:"main"`
	Out     string `toml:"out"`
	Grammar string `toml:"grammar"`
	Columns string `toml:"columns"`
	Target  string `toml:"target"`
}

// LoadFrom finds aliasc.toml upward from startDir and loads it.
// ok == false without error means no manifest exists.
func LoadFrom(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !IsValidModuleIdent(cfg.Package.Name) {
		return nil, fmt.Errorf("%s: invalid [package].name %q", path, cfg.Package.Name)
	}
	if !meta.IsDefined("build") {
		return nil, fmt.Errorf("%s: missing [build]", path)
	}
	if !meta.IsDefined("build", "main") || strings.TrimSpace(cfg.Build.Main) == "" {
		return nil, fmt.Errorf("%s: missing [build].main", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// MainPath resolves [build].main against the project root.
// It must be an existing .al file or a directory.
func (m *Manifest) MainPath() (string, error) {
	mainPath := filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Build.Main)))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [build].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [build].main: %w", m.Path, err)
	}
	if !info.IsDir() && filepath.Ext(mainPath) != SourceExt {
		return "", fmt.Errorf("%s: [build].main must be a %s file or directory", m.Path, SourceExt)
	}
	return mainPath, nil
}

// OutPath — [build].out относительно корня, либо пусто.
func (m *Manifest) OutPath() string {
	out := strings.TrimSpace(m.Config.Build.Out)
	if out == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// ModuleName derives the module name from a source path: "dir/main.al" -> "main".
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
