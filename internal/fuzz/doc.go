// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser -> codegen). Its goal is to smoke test
// robustness: no panics, no hangs, and token/declaration ranges that stay
// consistent on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, лексер обеих
// грамматик, парсер и генератор IR, проверяя инварианты testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/backend/llvm, internal/testkit.

package fuzztests
