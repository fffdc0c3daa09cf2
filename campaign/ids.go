package campaign

import (
	"fmt"
	"regexp"
	"strings"
)

var assetIDPattern = regexp.MustCompile(`^([a-z]+(?:-[a-z]+)*)-(\d{2})$`)

// AssetID formats the canonical id for the n-th asset of a type (1-based).
func AssetID(t AssetType, n int) string {
	return fmt.Sprintf("%s-%02d", t, n)
}

// ValidAssetID reports whether id has the form {type}-{NN} for the given type.
func ValidAssetID(id string, t AssetType) bool {
	m := assetIDPattern.FindStringSubmatch(id)
	return m != nil && m[1] == string(t)
}

// Sequence returns the trailing number segment of an asset id ("blog-article-03" -> "03").
func Sequence(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// NormalizeIDs renumbers planned assets per type in plan order so every id is
// unique and matches {type}-{NN}. The input slice is not modified.
func NormalizeIDs(assets []PlannedAsset) []PlannedAsset {
	out := make([]PlannedAsset, len(assets))
	seen := make(map[AssetType]int, len(AllAssetTypes))
	for i, a := range assets {
		seen[a.Type]++
		a.ID = AssetID(a.Type, seen[a.Type])
		a.KeyPoints = append([]string(nil), a.KeyPoints...)
		out[i] = a
	}
	return out
}
