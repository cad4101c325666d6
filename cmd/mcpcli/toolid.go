package main

import "strings"

// parseToolID accepts "server/tool" as one argument, or "server tool",
// which the shell has already split into two arguments; callers pass
// their positional args as they are. It returns an error naming the
// ambiguity when args don't unambiguously split into two non-empty
// components.
func parseToolID(args []string) (server, tool string, err error) {
	if len(args) == 2 && args[0] != "" && args[1] != "" {
		return args[0], args[1], nil
	}
	if len(args) != 1 {
		return "", "", errAmbiguousToolID(strings.Join(args, " "))
	}

	raw := args[0]
	idx := strings.IndexByte(raw, '/')
	if idx <= 0 || idx == len(raw)-1 {
		return "", "", errAmbiguousToolID(raw)
	}
	return raw[:idx], raw[idx+1:], nil
}

func errAmbiguousToolID(raw string) error {
	return usageErrorf("ambiguous tool id %q: expected \"server/tool\" or \"server tool\"", raw)
}
