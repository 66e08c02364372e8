package lang

import "strings"

func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }
func hasSuffix(s, suffix string) bool { return strings.HasSuffix(s, suffix) }
func contains(s, substr string) bool  { return strings.Contains(s, substr) }
