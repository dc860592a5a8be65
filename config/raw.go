package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ceyewan/levelconf/xerrors"
)

// mergeRawFile 解析配置文件并深度合并到 tree，保留键的原始大小写。
//
// TOML 由 go-toml 解析；JSON 是 YAML 的子集，与 YAML 一起由 yaml.v3 解析。
func mergeRawFile(tree map[string]any, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return xerrors.Wrapf(err, "failed to read config file %s", file)
	}
	var doc map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return xerrors.Wrapf(xerrors.Join(xerrors.ErrInvalidInput, err), "failed to parse config file %s", file)
	}
	deepMerge(tree, doc)
	return nil
}

// deepMerge 将 src 合并进 dst，同名 map 递归合并，其余值覆盖
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := toStringMap(v)
		if dstMap, ok := dst[k].(map[string]any); ok && srcIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			cp := make(map[string]any, len(srcMap))
			deepMerge(cp, srcMap)
			dst[k] = cp
			continue
		}
		dst[k] = v
	}
}

// toStringMap yaml.v3 对非字符串键会产出 map[any]any，这里统一转换
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// flatten 将嵌套配置展平为点分键
func flatten(tree map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]any, prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := toStringMap(v); ok && len(m) > 0 {
			flattenInto(out, key, m)
			continue
		}
		out[key] = v
	}
}

// underPrefix 返回 prefix 下的配置项；前缀部分不区分大小写，其余部分保留原样
func underPrefix(flat map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	if prefix == "" {
		maps.Copy(out, flat)
		return out
	}
	for k, v := range flat {
		if len(k) <= len(prefix)+1 || k[len(prefix)] != '.' {
			continue
		}
		if strings.EqualFold(k[:len(prefix)], prefix) {
			out[k[len(prefix)+1:]] = v
		}
	}
	return out
}
