package clog

import (
	"log/slog"
	"strings"
)

// NamespaceKey 是日志中命名空间的字段名
const NamespaceKey = "namespace"

func addNamespaceFields(options *options, attrs *[]slog.Attr) {
	if options == nil || len(options.namespaceParts) == 0 {
		return
	}
	*attrs = append(*attrs, slog.String(NamespaceKey, strings.Join(options.namespaceParts, ".")))
}
