package helpers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// The GetFlag helpers return def when the flag is undefined on cmd.

func GetFlagStringWithDefault(cmd *cobra.Command, name, def string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		return def
	}
	return v
}

func GetFlagBoolWithDefault(cmd *cobra.Command, name string, def bool) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def
	}
	return v
}

func GetFlagIntWithDefault(cmd *cobra.Command, name string, def int) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return def
	}
	return v
}

// ValidateEnum allows empty values.
func ValidateEnum(value string, allowed []string, fieldName string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return NewCliError("INVALID_ENUM",
		fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
		"provided: "+value)
}

// Truncate shortens s to maxLength runes, ending with "..." when there is room.
func Truncate(s string, maxLength int) string {
	r := []rune(s)
	switch {
	case len(r) <= maxLength:
		return s
	case maxLength <= 3:
		return string(r[:maxLength])
	default:
		return string(r[:maxLength-3]) + "..."
	}
}

func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
