package driver

import (
	"aliasc/internal/lexer"
	"aliasc/internal/source"
)

// Options — общие настройки конвейера для одного файла или каталога.
type Options struct {
	Grammar        lexer.Grammar
	Columns        source.ColumnMode
	MaxDiagnostics int
	// ModuleName переопределяет имя модуля; пусто — имя файла без расширения.
	ModuleName   string
	TargetTriple string
	AddressSpace uint16

	// Cache включает дисковый кэш сборки (только Build/BuildDir).
	Cache *DiskCache

	OnPhase    PhaseObserver
	OnProgress ProgressObserver
}

func (o Options) notifyPhase(ev PhaseEvent) {
	if o.OnPhase != nil {
		o.OnPhase(ev)
	}
}

func (o Options) notifyProgress(ev ProgressEvent) {
	if o.OnProgress != nil {
		o.OnProgress(ev)
	}
}
