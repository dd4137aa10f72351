// Package identifier は URL パスに現れる社員 ID・スキル ID の書式を検査します。
package identifier

import "regexp"

var (
	// 波括弧は前後それぞれ省略可能で、大文字小文字を区別しません。
	guidPattern = regexp.MustCompile(`^\{?[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}\}?$`)
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// IsValid は id が GUID もしくは UUID の書式であれば true を返します。
// 書式のみを確認し、レコードの存在は確認しません。
func IsValid(id string) bool {
	return guidPattern.MatchString(id) || uuidPattern.MatchString(id)
}
