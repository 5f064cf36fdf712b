package playlist

import "strings"

// nameReplacer maps characters FAT cannot store in a file name.
var nameReplacer = strings.NewReplacer(
	"/", "-",
	`\`, "-",
	":", "-",
	"*", "-",
	"?", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeName makes a playlist name safe to use as a file name on the
// player. Separators and wildcards become dashes; other reserved characters
// are dropped.
func SanitizeName(name string) string {
	return strings.TrimSpace(nameReplacer.Replace(strings.TrimSpace(name)))
}
